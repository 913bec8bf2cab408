package internal

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AidanDelaney/zipbuild/pkg/internal/util"
)

const (
	NodeHelper  string = "helper.js"
	ShellHelper string = "helper.sh"
)

var (
	functionCall = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\(\)$`)
	functionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// resolver output that means "nothing to offer"
	noValue = []string{"", "0", "null", "None"}
)

// Runs the exported function named by argv[2] of the module at argv[1] and
// prints its (possibly asynchronous) result, one array element per line.
const nodeInvoke = `
const mod = require(require('path').resolve(process.argv[1]));
const name = process.argv[2];
if (typeof mod[name] !== 'function') {
  console.error(name + ' is not exported by ' + process.argv[1]);
  process.exit(2);
}
Promise.resolve(mod[name]()).then((value) => {
  if (value === undefined || value === null) return;
  if (Array.isArray(value)) value = value.join('\n');
  process.stdout.write(String(value) + '\n');
}).catch((err) => {
  console.error(err);
  process.exit(1);
});
`

// Interpreters names the programs used to run bundled scripts.
type Interpreters struct {
	Node  string
	Shell string
}

func DefaultInterpreters() Interpreters {
	return Interpreters{Node: "node", Shell: "sh"}
}

// ExternalResolver runs a named zero-argument function from a bundled script
// and returns the candidate values it prints.
type ExternalResolver interface {
	Invoke(ctx context.Context, function string) ([]string, error)
}

// FunctionCall reports whether value looks like `name()` and returns name.
func FunctionCall(value string) (string, bool) {
	m := functionCall.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseCandidates turns resolver output into candidate values.
func ParseCandidates(output string) []string {
	trimmed := strings.TrimSpace(output)
	candidates := []string{}
	for _, nv := range noValue {
		if trimmed == nv {
			return candidates
		}
	}
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			candidates = append(candidates, line)
		}
	}
	return candidates
}

// DetectResolver picks the resolver dialect from the companion script found
// in dir, preferring the Node module.  It returns nil when there is none.
func DetectResolver(dir string, interpreters Interpreters) ExternalResolver {
	if _, err := os.Stat(filepath.Join(dir, NodeHelper)); err == nil {
		return &NodeResolver{Dir: dir, Node: interpreters.Node}
	}
	if _, err := os.Stat(filepath.Join(dir, ShellHelper)); err == nil {
		return &ShellResolver{Dir: dir, Shell: interpreters.Shell}
	}
	return nil
}

type NodeResolver struct {
	Dir  string
	Node string
}

func (r *NodeResolver) Invoke(ctx context.Context, function string) ([]string, error) {
	if !functionName.MatchString(function) {
		return nil, &ResolverError{Dialect: "node", Function: function, Err: fmt.Errorf("invalid function name")}
	}
	cmd := exec.CommandContext(ctx, r.Node, "-e", nodeInvoke, filepath.Join(r.Dir, NodeHelper), function)
	return runResolver(cmd, r.Dir, "node", function)
}

type ShellResolver struct {
	Dir   string
	Shell string
}

func (r *ShellResolver) Invoke(ctx context.Context, function string) ([]string, error) {
	if !functionName.MatchString(function) {
		return nil, &ResolverError{Dialect: "shell", Function: function, Err: fmt.Errorf("invalid function name")}
	}
	cmd := exec.CommandContext(ctx, r.Shell, "-c", ". ./"+ShellHelper+" && "+function)
	return runResolver(cmd, r.Dir, "shell", function)
}

func runResolver(cmd *exec.Cmd, dir string, dialect string, function string) ([]string, error) {
	logger := util.GetLogger("resolver")

	var stdout bytes.Buffer
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	util.LogCommand(logger, dir, cmd.Args)
	if err := cmd.Run(); err != nil {
		return nil, &ResolverError{Dialect: dialect, Function: function, Err: err}
	}

	candidates := ParseCandidates(stdout.String())
	logger.Debug().
		Str("function", function).
		Int("candidates", len(candidates)).
		Msg("Resolver finished")
	return candidates, nil
}
