package reactive_test

import (
	"fmt"
	"sync"

	"github.com/b97tsk/reactive"
)

func Example() {
	// Create an executor and let it run inline whenever a task is
	// spawned or resumed.
	var ex reactive.Executor
	ex.Autorun(ex.Run)

	// A cell the computation below depends on.
	city := reactive.NewCell("Berlin")

	// A resource polls the future produced by the factory and re-runs it
	// whenever a cell read during its latest poll changes.
	weather := reactive.NewResource(&ex, "weather", func() reactive.Future[string] {
		return func(t *reactive.Task) (string, bool) {
			return "sunny in " + city.Read(), true
		}
	})

	report := func() {
		if v, ok := weather.Value(); ok {
			fmt.Println(v, "-", weather.State())
		}
	}

	report()

	// Writing the cell cancels the current run and starts a fresh one.
	ex.Spawn("mutate", reactive.Do(func() { city.Write("Paris") }))

	report()

	// Output:
	// sunny in Berlin - Ready
	// sunny in Paris - Ready
}

// This example demonstrates how to run an executor in a goroutine
// automatically whenever a task is spawned or resumed.
func Example_nonBlocking() {
	var wg sync.WaitGroup // For keeping track of goroutines.

	var ex reactive.Executor
	ex.Autorun(func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ex.Run()
		}()
	})

	n := reactive.NewCell(1)

	square := reactive.NewResource(&ex, "square", func() reactive.Future[int] {
		return func(t *reactive.Task) (int, bool) {
			v := n.Read()
			return v * v, true
		}
	})

	wg.Wait()
	v, _ := square.Value()
	fmt.Println(v)

	ex.Spawn("mutate", reactive.Do(func() { n.Write(3) }))

	wg.Wait()
	v, _ = square.Value()
	fmt.Println(v)

	// Output:
	// 1
	// 9
}
