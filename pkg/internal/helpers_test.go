package internal

import (
	"archive/zip"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// fakePrompter answers from queues and records what it was asked.  An
// exhausted queue behaves like an interrupted prompt.
type fakePrompter struct {
	selections []int
	confirms   []bool
	inputs     []string

	selectOptions [][]string
	inputMessages []string
}

func (f *fakePrompter) Select(ctx context.Context, message string, options []string) (int, error) {
	f.selectOptions = append(f.selectOptions, options)
	if len(f.selections) == 0 {
		return -1, ErrInterrupted
	}
	choice := f.selections[0]
	f.selections = f.selections[1:]
	return choice, nil
}

func (f *fakePrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if len(f.confirms) == 0 {
		return false, ErrInterrupted
	}
	answer := f.confirms[0]
	f.confirms = f.confirms[1:]
	return answer, nil
}

func (f *fakePrompter) Input(ctx context.Context, message string) (string, error) {
	f.inputMessages = append(f.inputMessages, message)
	if len(f.inputs) == 0 {
		return "", ErrInterrupted
	}
	answer := f.inputs[0]
	f.inputs = f.inputs[1:]
	return answer, nil
}

type fakeResolver struct {
	output map[string][]string
	err    error
	calls  []string
}

func (f *fakeResolver) Invoke(ctx context.Context, function string) ([]string, error) {
	f.calls = append(f.calls, function)
	if f.err != nil {
		return nil, f.err
	}
	return f.output[function], nil
}
