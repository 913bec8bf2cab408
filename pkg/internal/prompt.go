package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

const maxPageSize = 15

// Prompter asks the user questions.  Select always returns an index into
// options; an interrupted prompt, or one whose context is done, returns
// ErrInterrupted.
type Prompter interface {
	Select(ctx context.Context, message string, options []string) (int, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
	Input(ctx context.Context, message string) (string, error)
}

// NewPrompter returns an interactive prompter when stdin is a terminal and a
// numbered text menu otherwise.
func NewPrompter(stdin *os.File, stdout *os.File) Prompter {
	if isatty.IsTerminal(stdin.Fd()) || isatty.IsCygwinTerminal(stdin.Fd()) {
		return NewSurveyPrompter(stdin, stdout, stdout)
	}
	return NewLinePrompter(stdin, stdout)
}

func requireNonEmptyString(ans interface{}) error {
	if s, ok := ans.(string); !ok || strings.TrimSpace(s) == "" {
		return errors.New("please provide a non-empty value")
	}
	return nil
}

func interrupted(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return err
}

type SurveyPrompter struct {
	in     terminal.FileReader
	out    terminal.FileWriter
	errOut io.Writer
}

func NewSurveyPrompter(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) *SurveyPrompter {
	return &SurveyPrompter{in: in, out: out, errOut: errOut}
}

func (p *SurveyPrompter) stdio() survey.AskOpt {
	return survey.WithStdio(p.in, p.out, p.errOut)
}

// Ctrl-C reaches survey as a key press in raw mode, so only a context that is
// already done is checked here.
func (p *SurveyPrompter) Select(ctx context.Context, message string, options []string) (int, error) {
	if ctx.Err() != nil {
		return -1, ErrInterrupted
	}
	if len(options) == 0 {
		return -1, errors.New("nothing to choose from")
	}
	pageSize := len(options)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var choice int
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: pageSize,
	}
	if err := survey.AskOne(prompt, &choice, p.stdio()); err != nil {
		return -1, interrupted(err)
	}
	return choice, nil
}

func (p *SurveyPrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if ctx.Err() != nil {
		return false, ErrInterrupted
	}
	answer := def
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(prompt, &answer, p.stdio()); err != nil {
		return false, interrupted(err)
	}
	return answer, nil
}

func (p *SurveyPrompter) Input(ctx context.Context, message string) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInterrupted
	}
	var answer string
	prompt := &survey.Input{
		Message: message,
	}
	if err := survey.AskOne(prompt, &answer, p.stdio(), survey.WithValidator(requireNonEmptyString)); err != nil {
		return "", interrupted(err)
	}
	return answer, nil
}

// LinePrompter is a numbered text menu for input that is not a terminal.
// End of input counts as an interrupt, as does a done context while waiting
// for a line.
type LinePrompter struct {
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan lineResult
}

type lineResult struct {
	line string
	err  error
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out, lines: make(chan lineResult)}
}

// readLines feeds lines to readLine until the input fails.  A blocked read
// cannot be abandoned, so it runs on its own goroutine.
func (p *LinePrompter) readLines() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		p.lines <- lineResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	p.once.Do(func() { go p.readLines() })

	var res lineResult
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ErrInterrupted
	case r, ok := <-p.lines:
		if !ok {
			return "", ErrInterrupted
		}
		res = r
	}

	if res.err != nil {
		if !errors.Is(res.err, io.EOF) {
			return "", res.err
		}
		if res.line == "" {
			return "", ErrInterrupted
		}
	}
	return strings.TrimRight(res.line, "\r\n"), nil
}

func (p *LinePrompter) Select(ctx context.Context, message string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.New("nothing to choose from")
	}

	fmt.Fprintln(p.out, message)
	for i, option := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, option)
	}

	for {
		fmt.Fprint(p.out, "Enter your choice: ")
		line, err := p.readLine(ctx)
		if err != nil {
			return -1, err
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(p.out, "Please enter a valid number.")
			continue
		}
		if choice < 1 || choice > len(options) {
			fmt.Fprintln(p.out, "Invalid choice. Please select a number from the list.")
			continue
		}
		return choice - 1, nil
	}
}

func (p *LinePrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}

	for {
		fmt.Fprintf(p.out, "%s [%s]: ", message, hint)
		line, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer yes or no.")
	}
}

func (p *LinePrompter) Input(ctx context.Context, message string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", message)
		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if err := requireNonEmptyString(line); err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		return line, nil
	}
}
