package handlers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrQuit is returned by prompts when the input is exhausted
var ErrQuit = errors.New("input closed")

// Console reads answers line by line and writes the menus
type Console struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal file descriptor of the input, or -1
	fd int
}

// NewConsole wraps an input and an output. When in is a terminal, passwords
// are read without echo.
func NewConsole(in io.Reader, out io.Writer) *Console {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
		fd:  fd,
	}
}

// Printf writes formatted text
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line
func (c *Console) Println(args ...interface{}) {
	fmt.Fprintln(c.out, args...)
}

// Prompt prints label and returns the trimmed answer
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrQuit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptPassword reads a password, without echo on a terminal
func (c *Console) PromptPassword(label string) (string, error) {
	if c.fd < 0 {
		return c.Prompt(label)
	}
	fmt.Fprint(c.out, label)
	password, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

// PromptInt asks until the answer is an integer
func (c *Console) PromptInt(label string) (int, error) {
	for {
		answer, err := c.Prompt(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil {
			return n, nil
		}
		c.Println("Please enter a number.")
	}
}

// PromptFloat asks until the answer is a number
func (c *Console) PromptFloat(label string) (float64, error) {
	for {
		answer, err := c.Prompt(label)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(answer, 64)
		if err == nil {
			return f, nil
		}
		c.Println("Please enter a number.")
	}
}

// PromptDefault returns current when the answer is empty
func (c *Console) PromptDefault(label, current string) (string, error) {
	answer, err := c.Prompt(fmt.Sprintf("%s [%s]: ", label, current))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// Menu prints numbered options and returns the 1-based choice
func (c *Console) Menu(title string, options []string) (int, error) {
	c.Printf("\n--- %s ---\n", title)
	for i, option := range options {
		c.Printf("%d. %s\n", i+1, option)
	}
	for {
		choice, err := c.PromptInt("Enter your choice: ")
		if err != nil {
			return 0, err
		}
		if choice >= 1 && choice <= len(options) {
			return choice, nil
		}
		c.Println("Invalid choice. Please try again")
	}
}

// Confirm asks a yes/no question
func (c *Console) Confirm(label string) (bool, error) {
	answer, err := c.Prompt(label + " (y/n): ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
