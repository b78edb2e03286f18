package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"humanpanic/pkg/crash"
)

var (
	crashMessage   string
	crashKind      string
	crashGoroutine bool
)

// crashCmd löst absichtlich einen Panic aus, um den Crash-Handler zu zeigen
var crashCmd = &cobra.Command{
	Use:   "crash",
	Short: "Trigger a panic to demonstrate the crash handler",
	Long: `Triggers a panic so the crash handler can be observed.

Kinds:
  string  panic with a string message (default)
  error   panic with an error value
  index   runtime error: index out of range
  nil     runtime error: nil pointer dereference
  value   panic with a value that carries no message

Examples:
  humanpanic crash --message "oops"
  humanpanic crash --kind nil --goroutine
  GOTRACEBACK=1 humanpanic crash`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		switch crashKind {
		case "string", "error", "index", "nil", "value":
			return nil
		default:
			return fmt.Errorf("unknown kind %q", crashKind)
		}
	},
	RunE: runCrash,
}

func init() {
	rootCmd.AddCommand(crashCmd)

	crashCmd.Flags().StringVarP(&crashMessage, "message", "m", "oops", "panic message")
	crashCmd.Flags().StringVarP(&crashKind, "kind", "k", "string", "kind of panic (string, error, index, nil, value)")
	crashCmd.Flags().BoolVarP(&crashGoroutine, "goroutine", "g", false, "panic inside a separate goroutine")
}

func runCrash(cmd *cobra.Command, args []string) error {
	if !crashGoroutine {
		trigger(crashKind, crashMessage)
		return nil
	}

	// done wird bei einem Panic nie geschlossen, der Handler beendet den Prozess
	done := make(chan struct{})
	crash.Go("crash-demo", func() {
		trigger(crashKind, crashMessage)
		close(done)
	})
	<-done
	return nil
}

// trigger löst je nach kind einen Panic aus
func trigger(kind, message string) {
	switch kind {
	case "error":
		panic(errors.New(message))
	case "index":
		items := make([]string, 0, len(message))
		fmt.Println(items[len(message)])
	case "nil":
		var meta *crash.Metadata
		fmt.Println(meta.Name)
	case "value":
		panic(struct{ Kind string }{kind})
	default:
		panic(message)
	}
}
