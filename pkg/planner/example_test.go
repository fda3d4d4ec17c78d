package planner_test

import (
	"fmt"

	"github.com/matzehuels/blueprint/pkg/planner"
)

func ExampleDialogue() {
	d := planner.NewDialogue("A campus lost and found board", nil)
	for !d.Done() {
		q, _ := d.Current()
		switch q.ID {
		case "q1":
			d.Answer("1")
		case "q3":
			d.Answer("Web app")
		default:
			d.Skip()
		}
	}
	fmt.Println(d.Refined())
	// Output:
	// A campus lost and found board
	//
	// Student's clarifications:
	// Q: Who are the main users of this project? - A: Students
	// Q: Where should it run? - A: Web app
}
