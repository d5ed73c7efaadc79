package compose

import (
	"fmt"
	"strings"

	"github.com/vivekmuskan03/sahayak/internal/tasks"
)

// TodoCreatedReply confirms new items and shows the refreshed list.
func TodoCreatedReply(created []tasks.Todo, all []tasks.Todo) string {
	if len(created) == 0 {
		return `I couldn't find any task names in that. Try quoting them, like: homework "Maths Unit 3", "DSA Sheet 2".`
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Added %d item(s) to your to-do list for today:\n", len(created))
	for i, t := range created {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.Title)
	}
	b.WriteString("\n")
	b.WriteString(todoListBody(all))
	return strings.TrimRight(b.String(), "\n")
}

// TodoCompletedReply summarizes a completion pass.
func TodoCompletedReply(updated int, clearAll bool, all []tasks.Todo) string {
	if updated == 0 {
		return `I couldn't match those items to your to-dos. Try quoting exact names like: "Maths", "DSA".`
	}
	remaining := 0
	for _, t := range all {
		if !t.Done {
			remaining++
		}
	}
	if len(all) > 0 && remaining == 0 {
		return "Congratulations! 🎉 You've completed all your tasks for today. Great job!"
	}
	if clearAll {
		return fmt.Sprintf("Marked all %d item(s) as completed for today.", updated)
	}
	return fmt.Sprintf("Marked %d item(s) as completed. You have %d task(s) remaining.", updated, remaining)
}

// TodoListReply renders the open list with checkboxes.
func TodoListReply(all []tasks.Todo) string {
	if len(all) == 0 {
		return "You have no tasks for today. Enjoy the free time, or tell me what to add!"
	}
	return todoListBody(all)
}

func todoListBody(all []tasks.Todo) string {
	if len(all) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Your tasks for today:\n")
	completed := 0
	for i, t := range all {
		box := "⬜"
		if t.Done {
			box = "✅"
			completed++
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, box, t.Title)
	}
	fmt.Fprintf(&b, "%d done, %d remaining.", completed, len(all)-completed)
	return b.String()
}
