package experiment_test

import (
	"fmt"
	"io"

	"github.com/samuelfneumann/gridq/experiment"
)

func ExampleRunValueIteration() {
	c := experiment.DefaultConfig()
	c.Rollout.Start = []int{0, 1}

	result, err := experiment.RunValueIteration(c, nil, io.Discard)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("converged:", result.Result.Converged)
	fmt.Println("episode ended by:", result.Episode.End)
	// Output:
	// converged: true
	// episode ended by: Timeout
}
