package cli

import (
	"fmt"

	"github.com/NikitaCOEUR/cmdgraph/internal/status"
)

// Status displays the console configuration, subject and commands
func (c *Console) Status() error {
	data := status.Collect(status.Input{
		Config:    c.cfg,
		Source:    c.source,
		LogLevel:  c.log.Level(),
		Subject:   c.subject,
		Root:      c.root,
		Namespace: c.Namespace(),
		Bodies:    c.universe.Len(),
		Users:     c.users.Names(),
	})

	fmt.Fprintln(c.out, status.Render(data))
	return nil
}
