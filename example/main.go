package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/autosave"
	"github.com/meikuraledutech/workflow/memory"
	"github.com/meikuraledutech/workflow/validation"
)

func main() {
	ctx := context.Background()
	sink := memory.New(0)

	// ── A graph that is still being built ─────────────────────────────
	nodes := []workflow.Node{
		{ID: "start", Type: workflow.NodeStart},
		{ID: "signup", Type: workflow.NodeForm, Data: workflow.FormData{
			CustomName: "Su",
			Fields:     []workflow.FormField{{Name: "e mail", Label: "Email"}},
		}},
		{ID: "end", Type: workflow.NodeEnd},
	}
	edges := []workflow.Edge{{ID: "e1", Source: "start", Target: "signup"}}

	res := validation.Validate(nodes, edges)
	fmt.Println("validation (draft):")
	printJSON(res)

	// ── Field check on blur ───────────────────────────────────────────
	msg := validation.ValidateField(validation.FieldURL, "example.com", validation.FieldContext{NodeType: workflow.NodeAPI})
	fmt.Printf("\nurl on blur: %q\n", msg)

	// ── Autosave: blocked, then saved ─────────────────────────────────
	done := make(chan struct{}, 4)
	saver := autosave.New(sink, "onboarding", autosave.Input{},
		autosave.WithDebounce(200*time.Millisecond),
		autosave.WithMinSaving(100*time.Millisecond),
		autosave.WithSavedDisplay(200*time.Millisecond),
		autosave.WithOnChange(func(st autosave.Status) {
			fmt.Printf("autosave: %s %s\n", st.State, st.Message)
			if st.State == autosave.StateError || st.State == autosave.StateIdle {
				done <- struct{}{}
			}
		}),
	)
	defer saver.Close()

	saver.Update(input(nodes, edges, res))
	<-done

	// Fix the form and wire it to the end node.
	nodes[1].Data = workflow.FormData{
		CustomName: "Signup",
		Fields:     []workflow.FormField{{Name: "email", Label: "Email"}},
	}
	edges = append(edges, workflow.Edge{ID: "e2", Source: "signup", Target: "end"})
	res = validation.Validate(nodes, edges)
	fmt.Printf("\nvalidation (fixed): ok=%v\n", res.OK())

	saver.Update(input(nodes, edges, res))
	<-done

	// ── Restore prompt ────────────────────────────────────────────────
	snap, err := workflow.LoadSnapshot(ctx, sink, "onboarding")
	if err != nil {
		log.Fatalf("load snapshot: %v", err)
	}
	fmt.Printf("\nrestorable snapshot from %s:\n", snap.SavedAt)
	printJSON(snap)

	if err := workflow.DiscardSnapshot(ctx, sink, "onboarding"); err != nil {
		log.Fatalf("discard: %v", err)
	}
	fmt.Println("\nsnapshot discarded")
}

func input(nodes []workflow.Node, edges []workflow.Edge, res validation.Result) autosave.Input {
	return autosave.Input{
		Nodes:       nodes,
		Edges:       edges,
		GraphErrors: res.GraphErrors,
		NodeErrors:  res.NodeErrors,
	}
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
