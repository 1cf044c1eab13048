package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/wolfman30/parley/cmd/mainconfig"
	"github.com/wolfman30/parley/internal/app/bootstrap"
	"github.com/wolfman30/parley/internal/dialogue"
)

var sampleMessages = map[string][]string{
	dialogue.CustomerServicePersona: {"Hi, where is my order #123456?", "It still hasn't shipped and I'm getting frustrated"},
	dialogue.InfluencerPersona:      {"Hey! We'd love to work with you on a sponsored post", "Our budget is $800 for one reel"},
	dialogue.ProcurementPersona:     {"We offer web development services", "Our price is $6,500 for web development"},
}

func main() {
	cfg, logger := mainconfig.Setup("text", os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	llm, closeLLM, err := bootstrap.BuildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure llm provider", "error", err)
		os.Exit(1)
	}
	defer closeLLM()
	if llm == nil {
		fmt.Println("LLM_PROVIDER is none; set it to gemini, bedrock or gemini+bedrock")
		return
	}

	gen := bootstrap.BuildGenerator(llm, cfg, logger, nil)

	line := strings.Repeat("=", 60)
	fmt.Println(line)
	fmt.Printf("LLM Provider Test (%s)\n", cfg.LLMProvider)
	fmt.Println(line)

	failures := 0
	for i, name := range dialogue.BuiltinNames() {
		persona, err := dialogue.Builtin(name)
		if err != nil {
			logger.Error("unknown persona", "persona", name, "error", err)
			os.Exit(1)
		}
		sess, err := dialogue.NewSession(persona, dialogue.WithGenerator(gen), dialogue.WithLogger(logger))
		if err != nil {
			logger.Error("failed to create session", "persona", name, "error", err)
			os.Exit(1)
		}

		fmt.Printf("\n[%d] %s\n", i+1, persona.Title)
		for _, msg := range sampleMessages[name] {
			start := time.Now()
			reply, err := sess.Process(ctx, msg)
			if err != nil {
				fmt.Printf("    error: %v\n", err)
				failures++
				continue
			}
			if reply.Source != dialogue.SourceGenerated {
				failures++
			}
			fmt.Printf("    user: %s\n", msg)
			fmt.Printf("    bot (%s, %s, %v): %s\n", reply.Source, reply.Intent, time.Since(start).Round(time.Millisecond), reply.Text)
		}
	}

	fmt.Println("\n" + line)
	if failures > 0 {
		fmt.Printf("%d replies fell back to templates; check logs for the generation status\n", failures)
		os.Exit(1)
	}
	fmt.Println("All replies were generated by the configured provider")
}
