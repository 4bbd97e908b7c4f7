// Package status collects and displays the state of a cmdgraph console.
package status

import (
	"fmt"
	"strings"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/auth"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/config"
	"github.com/NikitaCOEUR/cmdgraph/internal/dispatcher"
	"github.com/NikitaCOEUR/cmdgraph/pkg/version"
)

// Input is what a console exposes to the collector
type Input struct {
	Config    *config.Config
	Source    config.Source
	LogLevel  string
	Subject   *auth.Subject
	Root      *dispatcher.Dispatcher
	Namespace *args.Namespace
	Bodies    int
	Users     []string
}

// Collect gathers the status of a console
func Collect(in Input) *Data {
	data := &Data{
		Version:      version.Version,
		ConfigSource: in.Source.String(),
		LogLevel:     in.LogLevel,
		Bodies:       in.Bodies,
		Users:        in.Users,
		Commands:     make([]CommandInfo, 0),
	}

	if in.Subject != nil {
		data.Subject = in.Subject.Name
		data.Permissions = in.Subject.List()
	}

	if cfg := in.Config; cfg != nil {
		data.GrantsFile = cfg.Subject.GrantsFile
		data.IgnoreUnusedFlags = cfg.IgnoreUnusedFlags
		data.Timeout = cfg.Executor.Timeout
		data.Executor = describeExecutor(cfg.Executor)
	}

	if in.Root != nil {
		dispatcher.Walk(in.Root, func(path []string, c command.Callable) {
			desc := c.Description()
			data.Commands = append(data.Commands, CommandInfo{
				Path:        strings.Join(path, " "),
				Usage:       desc.Usage(),
				Short:       desc.Short,
				Permissions: desc.Permissions,
				Permitted:   c.TestPermission(in.Namespace),
			})
		})
	}

	return data
}

func describeExecutor(e config.ExecutorConfig) string {
	if e.Mode == config.ExecutorPool {
		return fmt.Sprintf("pool (%d workers)", e.Workers)
	}
	return config.ExecutorDirect
}
