package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/wolfman30/parley/cmd/mainconfig"
	"github.com/wolfman30/parley/internal/app/bootstrap"
	"github.com/wolfman30/parley/internal/dialogue"
	"github.com/wolfman30/parley/internal/session"
	"github.com/wolfman30/parley/pkg/logging"
)

func main() {
	cfg, logger := mainconfig.Setup("text", os.Stderr)

	persona := pflag.StringP("persona", "p", cfg.Persona, "persona to chat with")
	pflag.StringVar(&cfg.PersonaFile, "persona-file", cfg.PersonaFile, "comma-separated persona YAML files")
	list := pflag.Bool("list", false, "list personas and exit")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llm, closeLLM, err := bootstrap.BuildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure llm provider", "error", err)
		os.Exit(1)
	}
	defer closeLLM()

	rt, err := bootstrap.BuildRuntime(ctx, cfg, llm, logger)
	if err != nil {
		logger.Error("failed to build runtime", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	if *list {
		for _, name := range rt.Sessions.Personas() {
			fmt.Println(name)
		}
		return
	}

	r, err := newREPL(rt.Sessions, *persona, os.Stdout, logger)
	if err != nil {
		logger.Error("failed to start chat", "error", err)
		os.Exit(1)
	}
	if err := r.run(ctx, os.Stdin); err != nil {
		logger.Error("chat ended with error", "error", err)
		os.Exit(1)
	}
}

type repl struct {
	sessions *session.Manager
	sess     *dialogue.Session
	out      io.Writer
	logger   *logging.Logger
	actions  []dialogue.QuickAction
}

func newREPL(sessions *session.Manager, persona string, out io.Writer, logger *logging.Logger) (*repl, error) {
	sess, err := sessions.Create(persona)
	if err != nil {
		return nil, err
	}
	return &repl{sessions: sessions, sess: sess, out: out, logger: logger}, nil
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	p := r.sess.Persona()
	fmt.Fprintf(r.out, "%s (type /help for commands)\n\n", p.Title)
	r.printReply(r.sess.Greeting())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			done, err := r.command(ctx, line)
			if err != nil {
				fmt.Fprintf(r.out, "error: %v\n", err)
			}
			if done {
				return nil
			}
			continue
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(r.actions) {
			line = r.actions[n-1].Message
			fmt.Fprintf(r.out, "you> %s\n", line)
		}

		reply, err := r.sess.Process(ctx, line)
		if err != nil {
			if errors.Is(err, dialogue.ErrEmptyMessage) {
				continue
			}
			return err
		}
		r.printReply(reply)
	}
}

func (r *repl) command(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(r.out, "commands: /reset, /export [json|text] [file], /quit")
		return false, nil
	case "/reset":
		if err := r.sessions.Reset(ctx, r.sess.ID()); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, "conversation reset")
		r.printReply(r.sess.Greeting())
		return false, nil
	case "/export":
		format, path := "text", ""
		if len(fields) > 1 {
			format = strings.ToLower(fields[1])
		}
		if len(fields) > 2 {
			path = fields[2]
		}
		return false, r.export(format, path)
	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}

func (r *repl) export(format, path string) error {
	w := r.out
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("chat: create export: %w", err)
		}
		defer f.Close()
		w = f
	}

	turns := r.sess.History()
	switch format {
	case "json":
		if err := dialogue.ExportJSON(w, turns); err != nil {
			return err
		}
	case "text", "txt":
		if _, err := io.WriteString(w, dialogue.RenderText(turns)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	if path != "" {
		fmt.Fprintf(r.out, "exported %d turns to %s\n", len(turns), path)
		r.logger.Info("transcript exported", "session_id", r.sess.ID(), "format", format, "path", path)
	}
	return nil
}

func (r *repl) printReply(reply dialogue.Reply) {
	if reply.Text == "" {
		return
	}
	fmt.Fprintf(r.out, "%s> %s\n", r.sess.Persona().Name, reply.Text)
	r.actions = reply.Suggestions
	for i, action := range reply.Suggestions {
		fmt.Fprintf(r.out, "  [%d] %s\n", i+1, action.Label)
	}
}
