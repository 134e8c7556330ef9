package notify

import (
	"context"
	"fmt"
	"os"
	"time"
)

// ConsoleNotifier writes progress lines to stdout.
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier { return &ConsoleNotifier{} }

func (c *ConsoleNotifier) Name() string { return "console" }

func (c *ConsoleNotifier) Notify(_ context.Context, text string) error {
	_, err := fmt.Fprintf(os.Stdout, "[%s] %s\n", time.Now().Format("15:04:05"), text)
	return err
}
