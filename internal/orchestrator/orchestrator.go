package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/vivekmuskan03/sahayak/internal/classify"
	"github.com/vivekmuskan03/sahayak/internal/compose"
	"github.com/vivekmuskan03/sahayak/internal/knowledge"
	"github.com/vivekmuskan03/sahayak/internal/lang"
	"github.com/vivekmuskan03/sahayak/internal/memory"
	"github.com/vivekmuskan03/sahayak/internal/observability"
	"github.com/vivekmuskan03/sahayak/internal/session"
	"github.com/vivekmuskan03/sahayak/internal/tasks"
)

var (
	ErrEmptyMessage = errors.New("message must not be empty")
	ErrNoUser       = errors.New("user id must not be empty")
)

// Translator is the slice of the translation layer the orchestrator needs.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
	Detect(ctx context.Context, text string) string
}

// ConcernInfo surfaces a wellbeing detection on the reply.
type ConcernInfo struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
}

// Reply is the orchestrator's answer to one chat message.
type Reply struct {
	Answer  string       `json:"answer"`
	Source  string       `json:"source"`
	Lang    string       `json:"lang"`
	Concern *ConcernInfo `json:"concern,omitempty"`
	Todos   []tasks.Todo `json:"todos,omitempty"`
}

// Request is one incoming chat message.
type Request struct {
	UserID       string
	SessionLabel string
	Message      string
	// Lang is the caller's preferred reply language; empty means detect.
	Lang string
}

// Orchestrator routes a message through concern detection, translation,
// intent classification, retrieval and composition.
type Orchestrator struct {
	Translator Translator
	Sessions   *session.Store
	Memory     memory.Store
	Todos      *tasks.Manager
	Retriever  *knowledge.Retriever
	Indexes    *knowledge.IndexSet
	Composer   *compose.Composer

	// ChatLogs receives finished exchanges so later questions can retrieve
	// them. Optional.
	ChatLogs *knowledge.StaticSource

	Metrics *observability.Metrics
	Window  *observability.PipelineWindow

	WebSearchEnabled bool
	MaxWebResults    int

	now        func() time.Time
	classifyFn func(messageEn string, hasLastEvent bool) (classify.Concern, classify.Intent)
}

func New() *Orchestrator {
	return &Orchestrator{now: time.Now}
}

// HandleMessage processes one user message end to end and returns the reply
// in the user's language.
func (o *Orchestrator) HandleMessage(ctx context.Context, req Request) (Reply, error) {
	started := o.clock()()
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}
	if strings.TrimSpace(req.UserID) == "" {
		return Reply{}, ErrNoUser
	}

	sess := o.Sessions.Get(req.UserID, req.SessionLabel)
	o.warmSession(ctx, sess, req.UserID)

	// Resolve the conversation language before anything else.
	target := lang.Normalize(req.Lang)
	if target == "" {
		if detected := o.Translator.Detect(ctx, message); detected != "" {
			target = detected
		} else {
			target = lang.Default
		}
	}

	// Everything downstream reasons in English.
	tIn := o.clock()()
	messageEn := message
	if target != lang.Default {
		messageEn = o.Translator.Translate(ctx, message, target, lang.Default)
	}
	o.observeStage(observability.StageTranslateIn, tIn)

	tClassify := o.clock()()
	concern, intent := o.classifyMessage(messageEn, sess.Context().LastEventTitle != "")
	o.observeStage(observability.StageClassify, tClassify)

	sess.MergeContext(session.ExtractContext(messageEn))

	var reply Reply
	if concern.Detected {
		reply = o.handleConcern(ctx, sess, req, message, concern)
	} else {
		reply = o.dispatch(ctx, sess, req, message, messageEn, intent)
	}
	reply.Lang = target

	// Localize the English answer.
	tOut := o.clock()()
	if target != lang.Default {
		reply.Answer = o.Translator.Translate(ctx, reply.Answer, lang.Default, target)
	}
	o.observeStage(observability.StageTranslateOut, tOut)

	o.recordExchange(ctx, sess, req, message, reply, target)

	if o.Metrics != nil {
		branch := string(intent.Kind)
		if concern.Detected {
			branch = "concern"
		}
		o.Metrics.Messages.WithLabelValues(branch, reply.Source).Inc()
		o.Metrics.ObserveMessageLatency(o.clock()().Sub(started))
	}
	o.observeStage(observability.StageTotal, started)
	return reply, nil
}

// warmSession refills a fresh session window from durable memory so a
// returning user keeps their conversational context across restarts and
// session expiry.
func (o *Orchestrator) warmSession(ctx context.Context, sess *session.Session, userID string) {
	if o.Memory == nil || sess.TurnCount() > 0 {
		return
	}
	turns, err := o.Memory.RecentContext(ctx, userID, 10)
	if err != nil {
		log.Printf("orchestrator: warm session for %s: %v", userID, err)
		o.countProviderError("memory", "recent_context")
		return
	}
	for _, t := range turns {
		sess.AppendTurn(t.Role, t.Content, t.Lang)
	}
}

// classifyMessage shields the reply path from classifier bugs. A panic here
// means the wellbeing screen was skipped, so it is logged at full volume and
// the message is treated as a plain question.
func (o *Orchestrator) classifyMessage(messageEn string, hasLastEvent bool) (concern classify.Concern, intent classify.Intent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("orchestrator: CRITICAL: classification panicked, wellbeing screening skipped: %v", r)
			concern = classify.Concern{}
			intent = classify.Intent{Kind: classify.KindQuestion}
		}
	}()
	fn := o.classifyFn
	if fn == nil {
		fn = func(text string, hasLastEvent bool) (classify.Concern, classify.Intent) {
			return classify.DetectConcern(text), classify.ClassifyIntent(text, hasLastEvent)
		}
	}
	return fn(messageEn, hasLastEvent)
}

func (o *Orchestrator) dispatch(ctx context.Context, sess *session.Session, req Request, message, messageEn string, intent classify.Intent) Reply {
	userCtx := sess.Context()
	name := userCtx.PreferredName

	switch intent.Kind {
	case classify.KindGreeting:
		answer := compose.GreetingReply(intent.Greeting, name, userCtx.Department)
		return Reply{Answer: answer, Source: "greeting_response"}

	case classify.KindUtility:
		answer := compose.UtilityReply(intent.Utility, o.clock()())
		if sess.TurnCount() == 0 {
			answer = compose.FirstTurnGreeting(name, answer)
		}
		return Reply{Answer: answer, Source: "real_life"}

	case classify.KindSchedule:
		return o.handleSchedule(ctx, req.UserID)

	case classify.KindTodo:
		return o.handleTodo(ctx, req, message, messageEn, intent)

	case classify.KindEvent:
		return o.handleEvent(ctx, sess, messageEn, intent)

	case classify.KindPersonal:
		return o.handlePersonal(ctx, sess, req, messageEn)

	case classify.KindRegulation:
		return Reply{Answer: compose.RegulationReply(intent.Regulation), Source: "regulation_knowledge"}

	case classify.KindOutOfScope:
		return Reply{Answer: compose.OutOfScopeReply(), Source: "domain_guard"}

	default:
		return o.handleQuestion(ctx, sess, req, messageEn)
	}
}

func (o *Orchestrator) handleConcern(ctx context.Context, sess *session.Session, req Request, message string, concern classify.Concern) Reply {
	answer := compose.ConcernReply(concern, sess.Context().PreferredName)

	if o.Metrics != nil {
		o.Metrics.ConcernsDetected.WithLabelValues(string(concern.Type), string(concern.Severity)).Inc()
	}
	if o.Window != nil {
		o.Window.ObserveIndicator("concern_detected")
	}

	// Persist the report for counselor review. A storage failure must not
	// block the supportive reply.
	if o.Memory != nil {
		var transcript strings.Builder
		for _, t := range sess.History(10) {
			fmt.Fprintf(&transcript, "%s: %s\n", t.Role, t.Content)
		}
		record := memory.ConcernRecord{
			UserID:       req.UserID,
			SessionLabel: sess.Label,
			ConcernType:  string(concern.Type),
			Severity:     string(concern.Severity),
			Keywords:     concern.Keywords,
			Message:      message,
			Reply:        answer,
			Transcript:   transcript.String(),
		}
		if err := o.Memory.SaveConcern(ctx, record); err != nil {
			log.Printf("orchestrator: FAILED to persist %s/%s concern for user %s: %v",
				concern.Type, concern.Severity, req.UserID, err)
			o.countProviderError("memory", "save_concern")
		}
	}

	return Reply{
		Answer:  answer,
		Source:  "concerning_content",
		Concern: &ConcernInfo{Type: string(concern.Type), Severity: string(concern.Severity)},
	}
}

func (o *Orchestrator) handleSchedule(ctx context.Context, userID string) Reply {
	timetable := ""
	if o.Indexes != nil {
		hits, err := o.Indexes.Search(ctx, knowledge.CorpusProfiles, "timetable schedule", 3)
		if err != nil {
			log.Printf("orchestrator: timetable lookup failed: %v", err)
			o.countProviderError("index", "search")
		}
		for _, h := range hits {
			if h.OwnerID == "" || h.OwnerID == userID {
				timetable = h.Body
				break
			}
		}
	}
	return Reply{Answer: compose.ScheduleReply(timetable, o.clock()()), Source: "schedule"}
}

func (o *Orchestrator) handleTodo(ctx context.Context, req Request, message, messageEn string, intent classify.Intent) Reply {
	switch intent.Todo {
	case classify.TodoClearAll:
		updated := o.Todos.CompleteAll(ctx, req.UserID)
		all := o.Todos.List(ctx, req.UserID)
		return Reply{Answer: compose.TodoCompletedReply(updated, true, all), Source: "todo_update", Todos: all}

	case classify.TodoComplete:
		candidates := tasks.ParseItems(messageEn)
		updated := o.Todos.Complete(ctx, req.UserID, messageEn, candidates)
		all := o.Todos.List(ctx, req.UserID)
		return Reply{Answer: compose.TodoCompletedReply(updated, false, all), Source: "todo_update", Todos: all}

	case classify.TodoList:
		all := o.Todos.List(ctx, req.UserID)
		return Reply{Answer: compose.TodoListReply(all), Source: "todo"}

	default:
		items := tasks.ParseItems(messageEn)
		created := o.Todos.Create(ctx, req.UserID, req.SessionLabel, message, items)
		all := o.Todos.List(ctx, req.UserID)
		return Reply{Answer: compose.TodoCreatedReply(created, all), Source: "todo", Todos: all}
	}
}

func (o *Orchestrator) handleEvent(ctx context.Context, sess *session.Session, messageEn string, intent classify.Intent) Reply {
	recent := o.recentEvents(ctx)

	query := intent.EventTitle
	if query == "" && intent.EventFollowUp {
		query = sess.Context().LastEventTitle
	}
	if query != "" {
		if ev, ok := o.findEvent(ctx, query, recent); ok {
			sess.SetLastEventTitle(ev.Title)
			return Reply{Answer: compose.EventDetail(ev), Source: "events"}
		}
		return Reply{Answer: compose.EventNotFound(recent), Source: "events"}
	}

	// Generic "upcoming events" digest; remember the top hit for follow-ups.
	if len(recent) > 0 {
		sess.SetLastEventTitle(recent[0].Title)
	}
	return Reply{Answer: compose.EventList(recent), Source: "events"}
}

// handlePersonal answers "my ..." questions from the user's own profile
// documents before falling back to general retrieval.
func (o *Orchestrator) handlePersonal(ctx context.Context, sess *session.Session, req Request, messageEn string) Reply {
	if o.Indexes == nil {
		return o.handleQuestion(ctx, sess, req, messageEn)
	}
	hits, err := o.Indexes.Search(ctx, knowledge.CorpusProfiles, messageEn, 3)
	if err != nil {
		log.Printf("orchestrator: profile lookup failed: %v", err)
		o.countProviderError("index", "search")
	}

	var owned, shared []knowledge.Scored
	for _, h := range hits {
		switch h.OwnerID {
		case req.UserID:
			owned = append(owned, h)
		case "":
			shared = append(shared, h)
		}
	}
	profiles := owned
	if len(profiles) == 0 {
		profiles = shared
	}
	if len(profiles) == 0 {
		return o.handleQuestion(ctx, sess, req, messageEn)
	}

	tCompose := o.clock()()
	answer, source := o.Composer.Answer(ctx, messageEn, sess.Context(), sess.History(0), &knowledge.Bundle{Profiles: profiles})
	o.observeStage(observability.StageCompose, tCompose)
	return Reply{Answer: answer, Source: source}
}

func (o *Orchestrator) handleQuestion(ctx context.Context, sess *session.Session, req Request, messageEn string) Reply {
	tRetrieve := o.clock()()
	var bundle *knowledge.Bundle
	if o.Retriever != nil {
		bundle = o.Retriever.Retrieve(ctx, messageEn, knowledge.RetrieveOptions{
			UserID:        req.UserID,
			IncludeWeb:    o.WebSearchEnabled && wantsCurrentInfo(messageEn),
			MaxWebResults: o.MaxWebResults,
		})
	}
	o.observeStage(observability.StageRetrieve, tRetrieve)

	tCompose := o.clock()()
	answer, source := o.Composer.Answer(ctx, messageEn, sess.Context(), sess.History(0), bundle)
	o.observeStage(observability.StageCompose, tCompose)

	if sess.TurnCount() == 0 {
		answer = compose.FirstTurnGreeting(sess.Context().PreferredName, answer)
	}
	return Reply{Answer: answer, Source: source}
}

// wantsCurrentInfo forces the web leg for questions whose answers go stale.
func wantsCurrentInfo(messageEn string) bool {
	t := strings.ToLower(messageEn)
	for _, kw := range []string{"latest", "current", "recent", "update", "hod", "head of department"} {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) recentEvents(ctx context.Context) []knowledge.Document {
	if o.Indexes == nil {
		return nil
	}
	hits, err := o.Indexes.Search(ctx, knowledge.CorpusEvents, "upcoming campus events", 5)
	if err != nil {
		log.Printf("orchestrator: events lookup failed: %v", err)
		o.countProviderError("index", "search")
		return nil
	}
	out := make([]knowledge.Document, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Document)
	}
	return out
}

func (o *Orchestrator) findEvent(ctx context.Context, title string, recent []knowledge.Document) (knowledge.Document, bool) {
	for _, ev := range recent {
		if strings.Contains(strings.ToLower(ev.Title), strings.ToLower(title)) {
			return ev, true
		}
	}
	if o.Indexes != nil {
		hits, err := o.Indexes.Search(ctx, knowledge.CorpusEvents, title, 1)
		if err == nil && len(hits) > 0 {
			return hits[0].Document, true
		}
	}
	return knowledge.Document{}, false
}

// recordExchange appends the turn pair to the session window, durable
// memory and the retrievable chat log corpus.
func (o *Orchestrator) recordExchange(ctx context.Context, sess *session.Session, req Request, message string, reply Reply, target string) {
	sess.AppendTurn("user", message, target)
	sess.AppendTurn("assistant", reply.Answer, target)

	if o.Memory != nil {
		for _, rec := range []memory.TurnRecord{
			{UserID: req.UserID, SessionLabel: sess.Label, Role: "user", Content: message, Lang: target},
			{UserID: req.UserID, SessionLabel: sess.Label, Role: "assistant", Content: reply.Answer, Lang: target},
		} {
			if err := o.Memory.SaveTurn(ctx, rec); err != nil {
				log.Printf("orchestrator: persist turn: %v", err)
				o.countProviderError("memory", "save_turn")
			}
		}
	}

	if o.ChatLogs != nil && reply.Source != "concerning_content" {
		o.ChatLogs.Add(knowledge.Document{
			Corpus:  knowledge.CorpusChatLogs,
			Title:   "Previous Conversation",
			Body:    fmt.Sprintf("user: %s\nassistant: %s", message, reply.Answer),
			OwnerID: req.UserID,
		})
		if o.Indexes != nil {
			o.Indexes.Invalidate(knowledge.CorpusChatLogs)
		}
	}
}

func (o *Orchestrator) clock() func() time.Time {
	if o.now != nil {
		return o.now
	}
	return time.Now
}

func (o *Orchestrator) countProviderError(provider, op string) {
	if o.Metrics != nil {
		o.Metrics.ProviderErrors.WithLabelValues(provider, op).Inc()
	}
}

func (o *Orchestrator) observeStage(stage string, started time.Time) {
	if o.Window != nil {
		o.Window.Observe(stage, o.clock()().Sub(started))
	}
}
