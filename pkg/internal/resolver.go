package internal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/AidanDelaney/zipbuild/pkg/internal/util"
)

const CreateNew string = "Create new"

// Environment maps manifest keys to the values substituted for them.
type Environment map[string]string

// Resolver turns a manifest into an Environment, asking the user whenever a
// value is missing or has to be chosen.
type Resolver struct {
	Prompter  Prompter
	External  ExternalResolver
	Overrides map[string]string
	Reporter  util.Reporter
	logger    zerolog.Logger
}

// NewResolver builds a Resolver.  external may be nil when the archive ships
// no resolver script.
func NewResolver(prompter Prompter, external ExternalResolver, overrides map[string]string, reporter util.Reporter) *Resolver {
	if overrides == nil {
		overrides = map[string]string{}
	}
	return &Resolver{
		Prompter:  prompter,
		External:  external,
		Overrides: overrides,
		Reporter:  reporter,
		logger:    util.GetLogger("resolver"),
	}
}

func (r *Resolver) Resolve(ctx context.Context, manifest Manifest) (Environment, error) {
	env := Environment{}
	for _, entry := range manifest {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value, err := r.resolveEntry(ctx, entry)
		if err != nil {
			return nil, err
		}
		env[entry.Key] = value
	}
	return env, nil
}

func (r *Resolver) resolveEntry(ctx context.Context, entry Entry) (string, error) {
	if override, exists := r.Overrides[entry.Key]; exists {
		r.logger.Debug().Str("key", entry.Key).Msg("Using override")
		return override, nil
	}

	if function, ok := FunctionCall(entry.Value); ok {
		if r.External != nil {
			return r.resolveCall(ctx, entry.Key, function)
		}
		r.logger.Warn().
			Str("key", entry.Key).
			Str("value", entry.Value).
			Msg("No resolver script in archive, using value literally")
	}

	if entry.Value != "" {
		return entry.Value, nil
	}
	return r.Prompter.Input(ctx, fmt.Sprintf("Provide a value for %s", entry.Key))
}

func (r *Resolver) resolveCall(ctx context.Context, key string, function string) (string, error) {
	candidates, err := r.External.Invoke(ctx, function)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		r.logger.Debug().Err(err).Str("key", key).Msg("Resolver failed")
		r.Reporter.Report(util.Warning, fmt.Sprintf("Could not compute values for %s: %s", key, err))
		return r.Prompter.Input(ctx, fmt.Sprintf("Provide a value for %s", key))
	}

	options := make([]string, 0, len(candidates)+1)
	options = append(options, candidates...)
	options = append(options, CreateNew)

	choice, err := r.Prompter.Select(ctx, fmt.Sprintf("Choose a value for %s", key), options)
	if err != nil {
		return "", err
	}
	if choice < 0 || choice >= len(options) {
		return "", fmt.Errorf("can not process the chosen value for %s: %d", key, choice)
	}
	if choice == len(candidates) {
		return r.Prompter.Input(ctx, fmt.Sprintf("Provide a new value for %s", key))
	}
	return candidates[choice], nil
}
