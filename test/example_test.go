package test

import (
	"context"
	"fmt"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/storage/memory"
)

// ExampleNew builds an engine over the seeded console users.
func ExampleNew() {
	engine, err := goGate.New().WithConfig(goGate.DevelopmentMockConfig()).Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer engine.Close()

	fmt.Println(len(engine.Routes()) > 0)
	// Output: true
}

// ExampleEngine_Guard walks one client from the login redirect to a page.
func ExampleEngine_Guard() {
	engine, err := goGate.New().WithConfig(goGate.DevelopmentMockConfig()).Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer engine.Close()

	ctx := context.Background()
	nav := goGate.NavigatorFunc(func(_ context.Context, path string, _ goGate.RedirectOptions) error {
		fmt.Println("redirect", path)
		return nil
	})
	g, _ := engine.Guard(memory.New(nil), nav)

	out, _ := g.Navigate(ctx, "/employees")
	fmt.Println(out.Decision)

	_, _ = g.Login(ctx, goGate.Credentials{Email: "manager@example.com", Password: "manager123"})
	// Output:
	// redirect /login
	// redirect_to_login
	// redirect /employees
}

// ExampleEngine_MetricsSnapshot reads in-process counters.
func ExampleEngine_MetricsSnapshot() {
	engine, _ := goGate.New().WithConfig(goGate.DevelopmentMockConfig()).Build()
	defer engine.Close()

	engine.Evaluate(context.Background(), nil, "/")
	fmt.Println(engine.MetricsSnapshot().Counters[goGate.MetricDecisionLogin])
	// Output: 1
}
