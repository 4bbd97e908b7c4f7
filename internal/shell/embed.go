package shell

import _ "embed"

// Embedded shell completion templates

//go:embed templates/completion/bash.tmpl
var bashTemplate string

//go:embed templates/completion/zsh.tmpl
var zshTemplate string

//go:embed templates/completion/fish.tmpl
var fishTemplate string
