package internal

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/require"

	"github.com/AidanDelaney/zipbuild/pkg/internal/util"
)

func TestResolver(t *testing.T) {
	spec.Run(t, "Resolver", testResolver, spec.Report(report.Terminal{}))
}

func testResolver(t *testing.T, when spec.G, it spec.S) {
	var (
		prompter *fakePrompter
		reporter *util.RecordingReporter
		ctx      context.Context
	)

	it.Before(func() {
		prompter = &fakePrompter{}
		reporter = &util.RecordingReporter{}
		ctx = context.Background()
	})

	when("every value is a literal", func() {
		it("resolves to the trimmed literals without asking", func() {
			manifest := Manifest{{Key: "PORT", Value: "3000"}, {Key: "HOST", Value: "localhost"}}

			env, err := NewResolver(prompter, nil, nil, reporter).Resolve(ctx, manifest)
			require.NoError(t, err)
			require.Equal(t, Environment{"PORT": "3000", "HOST": "localhost"}, env)
			require.Empty(t, prompter.inputMessages)
			require.Empty(t, prompter.selectOptions)
		})
	})

	when("a value is empty", func() {
		it("uses the user's answer unmodified", func() {
			prompter.inputs = []string{"  demo  "}
			manifest := Manifest{{Key: "PORT", Value: "3000"}, {Key: "NAME", Value: ""}}

			env, err := NewResolver(prompter, nil, nil, reporter).Resolve(ctx, manifest)
			require.NoError(t, err)
			require.Equal(t, "  demo  ", env["NAME"])
			require.Equal(t, []string{"Provide a value for NAME"}, prompter.inputMessages)
		})

		it("stops when the user interrupts", func() {
			_, err := NewResolver(prompter, nil, nil, reporter).Resolve(ctx, Manifest{{Key: "NAME"}})
			require.ErrorIs(t, err, ErrInterrupted)
		})
	})

	when("a value is a function call", func() {
		var external *fakeResolver

		it.Before(func() {
			external = &fakeResolver{output: map[string][]string{"genId": {"a1", "a2"}}}
		})

		it("offers the candidates plus Create new", func() {
			prompter.selections = []int{0}

			env, err := NewResolver(prompter, external, nil, reporter).Resolve(ctx, Manifest{{Key: "ID", Value: "genId()"}})
			require.NoError(t, err)
			require.Equal(t, "a1", env["ID"])
			require.Equal(t, []string{"genId"}, external.calls)
			require.Equal(t, [][]string{{"a1", "a2", CreateNew}}, prompter.selectOptions)
		})

		it("asks for a new value when Create new is chosen", func() {
			prompter.selections = []int{2}
			prompter.inputs = []string{"a3"}

			env, err := NewResolver(prompter, external, nil, reporter).Resolve(ctx, Manifest{{Key: "ID", Value: "genId()"}})
			require.NoError(t, err)
			require.Equal(t, "a3", env["ID"])
			require.Equal(t, []string{"Provide a new value for ID"}, prompter.inputMessages)
		})

		it("only offers Create new when there are no candidates", func() {
			external.output["genId"] = []string{}
			prompter.selections = []int{0}
			prompter.inputs = []string{"fresh"}

			env, err := NewResolver(prompter, external, nil, reporter).Resolve(ctx, Manifest{{Key: "ID", Value: "genId()"}})
			require.NoError(t, err)
			require.Equal(t, "fresh", env["ID"])
			require.Equal(t, [][]string{{CreateNew}}, prompter.selectOptions)
		})

		it("resolves to an offered candidate or typed text, never anything else", func() {
			for choice := 0; choice < 3; choice++ {
				p := &fakePrompter{selections: []int{choice}, inputs: []string{"typed"}}
				env, err := NewResolver(p, external, nil, reporter).Resolve(ctx, Manifest{{Key: "ID", Value: "genId()"}})
				require.NoError(t, err)
				require.Contains(t, []string{"a1", "a2", "typed"}, env["ID"])
			}
		})

		it("rejects a choice outside the offered options", func() {
			prompter.selections = []int{7}

			_, err := NewResolver(prompter, external, nil, reporter).Resolve(ctx, Manifest{{Key: "ID", Value: "genId()"}})
			require.Error(t, err)
		})

		when("the resolver fails", func() {
			it("warns and falls back to asking the user", func() {
				external.err = &ResolverError{Dialect: "shell", Function: "genId", Err: errors.New("exit status 127")}
				prompter.inputs = []string{"manual"}

				env, err := NewResolver(prompter, external, nil, reporter).Resolve(ctx, Manifest{{Key: "ID", Value: "genId()"}})
				require.NoError(t, err)
				require.Equal(t, "manual", env["ID"])
				require.True(t, reporter.Has(util.Warning))
				require.Empty(t, prompter.selectOptions)
			})

			it("reports the failure once, keeping it out of the default log", func() {
				logs := &bytes.Buffer{}
				previous, level := log.Logger, zerolog.GlobalLevel()
				log.Logger = zerolog.New(logs)
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
				defer func() {
					log.Logger = previous
					zerolog.SetGlobalLevel(level)
				}()

				external.err = &ResolverError{Dialect: "shell", Function: "genId", Err: errors.New("exit status 127")}
				prompter.inputs = []string{"manual"}

				_, err := NewResolver(prompter, external, nil, reporter).Resolve(ctx, Manifest{{Key: "ID", Value: "genId()"}})
				require.NoError(t, err)
				require.Len(t, reporter.Messages, 1)
				require.Empty(t, logs.String())
			})
		})

		when("the archive has no resolver script", func() {
			it("uses the value literally", func() {
				env, err := NewResolver(prompter, nil, nil, reporter).Resolve(ctx, Manifest{{Key: "ID", Value: "genId()"}})
				require.NoError(t, err)
				require.Equal(t, "genId()", env["ID"])
			})
		})

		when("the value only resembles a call", func() {
			it("uses the value literally", func() {
				manifest := Manifest{{Key: "A", Value: "genId(1)"}, {Key: "B", Value: "1gen()"}, {Key: "C", Value: "gen() x"}}

				env, err := NewResolver(prompter, external, nil, reporter).Resolve(ctx, manifest)
				require.NoError(t, err)
				require.Equal(t, Environment{"A": "genId(1)", "B": "1gen()", "C": "gen() x"}, env)
				require.Empty(t, external.calls)
			})
		})
	})

	when("an override exists for a key", func() {
		it("uses it without prompting or invoking the resolver", func() {
			external := &fakeResolver{output: map[string][]string{"genId": {"a1"}}}
			overrides := map[string]string{"NAME": "demo", "ID": "fixed", "PORT": "8080"}
			manifest := Manifest{{Key: "NAME"}, {Key: "ID", Value: "genId()"}, {Key: "PORT", Value: "3000"}}

			env, err := NewResolver(prompter, external, overrides, reporter).Resolve(ctx, manifest)
			require.NoError(t, err)
			require.Equal(t, Environment{"NAME": "demo", "ID": "fixed", "PORT": "8080"}, env)
			require.Empty(t, external.calls)
			require.Empty(t, prompter.inputMessages)
		})
	})

	when("the context is cancelled", func() {
		it("stops resolving", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := NewResolver(prompter, nil, nil, reporter).Resolve(cancelled, Manifest{{Key: "A", Value: "1"}})
			require.ErrorIs(t, err, context.Canceled)
		})
	})
}
