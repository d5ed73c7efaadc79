package session

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestAppendTurnSlidingWindow(t *testing.T) {
	s := newSession("u1", DefaultLabel)
	for i := 0; i < maxTurns+10; i++ {
		s.AppendTurn("user", fmt.Sprintf("message %d", i), "en")
	}

	turns := s.History(0)
	if len(turns) != maxTurns {
		t.Fatalf("window=%d, want %d", len(turns), maxTurns)
	}
	if turns[0].Content != "message 10" {
		t.Fatalf("oldest surviving turn = %q, want %q", turns[0].Content, "message 10")
	}
	if turns[len(turns)-1].Content != fmt.Sprintf("message %d", maxTurns+9) {
		t.Fatalf("newest turn = %q", turns[len(turns)-1].Content)
	}
}

func TestHistoryLimitAndCopy(t *testing.T) {
	s := newSession("u1", DefaultLabel)
	s.AppendTurn("user", "first", "en")
	s.AppendTurn("assistant", "second", "en")
	s.AppendTurn("user", "third", "en")

	turns := s.History(2)
	if len(turns) != 2 || turns[0].Content != "second" {
		t.Fatalf("History(2) = %+v", turns)
	}
	turns[0].Content = "mutated"
	if s.History(0)[1].Content != "second" {
		t.Fatal("History must return a copy")
	}
}

func TestMergeContextUnionAndOverwrite(t *testing.T) {
	s := newSession("u1", DefaultLabel)
	s.MergeContext(Context{Department: "Computer Science", Interests: []string{"programming"}})
	s.MergeContext(Context{Department: "Pharmacy", Interests: []string{"programming", "robotics"}, Year: "Second Year"})

	c := s.Context()
	if c.Department != "Pharmacy" {
		t.Errorf("department = %q, want last write", c.Department)
	}
	if c.Year != "Second Year" {
		t.Errorf("year = %q", c.Year)
	}
	if len(c.Interests) != 2 || c.Interests[0] != "programming" || c.Interests[1] != "robotics" {
		t.Errorf("interests = %v, want union in first-seen order", c.Interests)
	}
}

func TestMergeContextConcurrent(t *testing.T) {
	s := newSession("u1", DefaultLabel)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.MergeContext(Context{Interests: []string{fmt.Sprintf("topic-%d", i%5)}})
		}()
	}
	wg.Wait()
	if got := len(s.Context().Interests); got != 5 {
		t.Fatalf("interests after concurrent merges = %d, want 5", got)
	}
}

func TestStoreGetCreatesAndReuses(t *testing.T) {
	st := NewStore(time.Minute)
	a := st.Get("u1", "")
	b := st.Get("u1", DefaultLabel)
	if a != b {
		t.Fatal("empty label must alias the default session")
	}
	if c := st.Get("u1", "revision"); c == a {
		t.Fatal("distinct labels must get distinct sessions")
	}
	if st.ActiveCount() != 2 {
		t.Fatalf("active=%d, want 2", st.ActiveCount())
	}
}

func TestExpireIdleInvokesHook(t *testing.T) {
	st := NewStore(time.Nanosecond)
	var expired []*Session
	st.SetExpireHook(func(s *Session) { expired = append(expired, s) })

	s := st.Get("u1", "")
	s.AppendTurn("user", "hello", "en")
	time.Sleep(time.Millisecond)
	st.expireIdle()

	if st.ActiveCount() != 0 {
		t.Fatalf("active=%d after expiry", st.ActiveCount())
	}
	if len(expired) != 1 || expired[0] != s {
		t.Fatalf("expire hook saw %v", expired)
	}
}

func TestExtractContext(t *testing.T) {
	c := ExtractContext("My name is Ananya, I am a second year CSE student interested in machine learning and placement")
	if c.PreferredName == "" {
		t.Error("expected preferred name")
	}
	if c.Department != "Computer Science" {
		t.Errorf("department = %q", c.Department)
	}
	if c.Year != "Second Year" {
		t.Errorf("year = %q", c.Year)
	}
	if len(c.Interests) == 0 || c.Interests[0] != "machine learning" {
		t.Errorf("interests = %v", c.Interests)
	}
	if len(c.AcademicGoals) == 0 {
		t.Errorf("goals = %v", c.AcademicGoals)
	}
}

func TestExtractContextPreferences(t *testing.T) {
	c := ExtractContext("Please keep answers short and use a formal tone")
	if c.AnswerLength != "short" {
		t.Errorf("answer length = %q, want short", c.AnswerLength)
	}
	if c.ResponseStyle != "formal" {
		t.Errorf("response style = %q, want formal", c.ResponseStyle)
	}

	c = ExtractContext("explain fully, I like a friendly tone")
	if c.AnswerLength != "long" {
		t.Errorf("answer length = %q, want long", c.AnswerLength)
	}
	if c.ResponseStyle != "friendly" {
		t.Errorf("response style = %q, want friendly", c.ResponseStyle)
	}
}

func TestMergeContextKeepsPreferences(t *testing.T) {
	s := newSession("u1", "default")
	s.MergeContext(Context{AnswerLength: "short", ResponseStyle: "formal"})
	s.MergeContext(Context{Department: "Pharmacy"})
	got := s.Context()
	if got.AnswerLength != "short" || got.ResponseStyle != "formal" {
		t.Fatalf("preferences lost across merges: %+v", got)
	}
	s.MergeContext(Context{AnswerLength: "long"})
	if got := s.Context(); got.AnswerLength != "long" {
		t.Fatalf("answer length = %q, want long after update", got.AnswerLength)
	}
}
