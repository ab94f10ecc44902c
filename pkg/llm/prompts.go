package llm

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFiles embed.FS

// Prompt names. Each file defines a "system" and a "user" template.
const (
	PromptCVAnalysis     = "cv_analysis"
	PromptJobMatch       = "job_match"
	PromptEmail          = "email"
	PromptJobDescription = "job_description"
)

var prompts = map[string]*template.Template{}

func init() {
	for _, name := range []string{PromptCVAnalysis, PromptJobMatch, PromptEmail, PromptJobDescription} {
		raw, err := promptFiles.ReadFile("prompts/" + name + ".tmpl")
		if err != nil {
			panic(err)
		}
		prompts[name] = template.Must(template.New(name).Funcs(template.FuncMap{
			"join": strings.Join,
		}).Parse(string(raw)))
	}
}

// RenderPrompt executes the named prompt and returns a ready Request.
func RenderPrompt(name string, data interface{}) (Request, error) {
	t, ok := prompts[name]
	if !ok {
		return Request{}, fmt.Errorf("unknown prompt %q", name)
	}
	var sys, user bytes.Buffer
	if err := t.ExecuteTemplate(&sys, "system", data); err != nil {
		return Request{}, fmt.Errorf("render %s system prompt: %w", name, err)
	}
	if err := t.ExecuteTemplate(&user, "user", data); err != nil {
		return Request{}, fmt.Errorf("render %s prompt: %w", name, err)
	}
	return Request{System: sys.String(), Prompt: user.String()}, nil
}
