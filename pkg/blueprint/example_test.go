package blueprint_test

import (
	"fmt"

	"github.com/matzehuels/blueprint/pkg/blueprint"
	"github.com/matzehuels/blueprint/pkg/graph"
)

func ExampleDecode() {
	b, err := blueprint.Decode([]byte(`{
		"summary": {"problem_statement": "Campus lost and found", "target_users": "Students"},
		"feasibility": {"feasibility_level": "Unknown"}
	}`))
	if err != nil {
		panic(err)
	}
	fmt.Println(b.Title())
	fmt.Println(b.Summary.TargetUsers)
	fmt.Println(b.Feasibility.Level)
	// Output:
	// Campus lost and found
	// [Students]
	// Medium
}

func ExampleUserFlowGraph() {
	b := blueprint.Blueprint{
		SystemFlow: blueprint.SystemFlow{Steps: []blueprint.Step{
			{Actor: "Student", Action: "Reports item"},
			{Actor: "Admin", Action: "Verifies claim"},
		}},
	}
	g, src := blueprint.UserFlowGraph(b, nil)
	fmt.Println(src)
	for _, n := range g.Nodes {
		fmt.Printf("%s %s (%s)\n", n.ID, n.Label, n.Category)
	}
	fmt.Println(g.Edges)
	// Output:
	// sections
	// step-1 Reports item (Student)
	// step-2 Verifies claim (Admin)
	// [step-1→step-2]
}

func ExampleTechStackGraph() {
	g, src := blueprint.TechStackGraph(blueprint.Blueprint{}, graph.TechStack)
	fmt.Println(src, len(g.Nodes), len(g.Edges))
	// Output: fallback 4 3
}
