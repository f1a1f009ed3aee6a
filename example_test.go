package monitor_test

import (
	"errors"
	"fmt"

	monitor "github.com/a2y-d5l/go-monitor"
)

func ExampleNewQueue() {
	q, err := monitor.NewQueue(2, 4)
	if err != nil {
		panic(err)
	}
	defer q.Destroy()

	for _, m := range []string{"AAAA", "BBBB", "CCCC"} {
		err := q.Send([]byte(m), monitor.Immediate)
		fmt.Println(m, err == nil, errors.Is(err, monitor.ErrTimedOut))
	}

	buf := make([]byte, 4)
	for i := 0; i < 3; i++ {
		if err := q.Receive(buf, monitor.Immediate); err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(string(buf))
	}
	// Output:
	// AAAA true false
	// BBBB true false
	// CCCC false true
	// AAAA
	// BBBB
	// wait timed out
}

func ExampleNewEventGroup() {
	g := monitor.NewEventGroup()
	defer g.Destroy()

	g.Set(0b111)
	fmt.Println(g.Wait(0b100, monitor.Any, monitor.Keep, monitor.Immediate))
	fmt.Println(g.Wait(0b011, monitor.All, monitor.Clear, monitor.Immediate))
	fmt.Printf("%#b\n", g.Current())

	g.Reset()
	fmt.Println(g.Wait(0b100, monitor.Any, monitor.Keep, monitor.Infinite))
	// Output:
	// <nil>
	// <nil>
	// 0b100
	// wait canceled by reset
}
