package users

import (
	"context"
	"fmt"
	"io"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/dispatcher"
	"github.com/NikitaCOEUR/cmdgraph/internal/parametric"
)

const (
	PermGreet = "users.greet"
	PermMsg   = "users.msg"
	PermPoke  = "users.poke"
	PermInbox = "users.inbox"
)

// Commands registers the messaging commands on n
func Commands(n *dispatcher.Node) {
	n.Register(
		parametric.Definition{
			Aliases:     []string{"greet"},
			Desc:        "Greet the sender",
			Permissions: []string{PermGreet},
			Params:      []parametric.Spec{parametric.Param[*User]().As(Sender)},
			Body: func(_ context.Context, values []any, _ *args.Namespace) error {
				parametric.Value[*User](values, 0).Message("Hi!")
				return nil
			},
		},
		parametric.Definition{
			Aliases:     []string{"msg", "privmsg"},
			Desc:        "Send a message to someone",
			Permissions: []string{PermMsg},
			Params: []parametric.Spec{
				parametric.Param[*User]().As(Sender),
				parametric.Param[*User]().Named("user"),
				parametric.Param[string]().As(binding.Text).Named("message").Optional(),
			},
			Body: func(_ context.Context, values []any, _ *args.Namespace) error {
				from := parametric.Value[*User](values, 0)
				text := parametric.Value[string](values, 2)
				if text == "" {
					text = "Hi from " + from.Name
				} else {
					text = from.Name + ": " + text
				}
				parametric.Value[*User](values, 1).Message(text)
				return nil
			},
		},
		parametric.Definition{
			Aliases:     []string{"poke"},
			Desc:        "Poke someone anonymously",
			Permissions: []string{PermPoke},
			Params: []parametric.Spec{
				parametric.Param[*User]().Named("user"),
				parametric.Param[int]().Flag('n').Named("count").Default("1").With(binding.Between(1, 10)),
			},
			Body: func(_ context.Context, values []any, _ *args.Namespace) error {
				target := parametric.Value[*User](values, 0)
				for i, n := 0, parametric.Value[int](values, 1); i < n; i++ {
					target.Message("You've been poked!")
				}
				return nil
			},
		},
		parametric.Definition{
			Aliases:     []string{"inbox"},
			Desc:        "Read your messages",
			Permissions: []string{PermInbox},
			Params: []parametric.Spec{
				parametric.Param[io.Writer](),
				parametric.Param[*User]().As(Sender),
				parametric.Param[bool]().Flag('c').Named("clear"),
			},
			Body: inbox,
		},
	)
}

func inbox(_ context.Context, values []any, _ *args.Namespace) error {
	w := parametric.Value[io.Writer](values, 0)
	u := parametric.Value[*User](values, 1)

	messages := u.Inbox()
	if len(messages) == 0 {
		fmt.Fprintln(w, "No messages.")
	}
	for i, m := range messages {
		fmt.Fprintf(w, "%d. %s\n", i+1, m)
	}
	if parametric.Value[bool](values, 2) {
		u.ClearInbox()
	}
	return nil
}
