package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"kalushael-go/internal/config"
	"kalushael-go/internal/engine"
	"kalushael-go/internal/mind/spark"
	"kalushael-go/internal/util"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the engine's console",
	Long: `Open an interactive console against the engine's classifier and
memory store. The engine is built but the feed is not started, so answers
reflect a fresh account.

Console commands:
  /teach <intent> <text>  add a labeled sample to the corpus
  /exit                   quit

Everything else is classified, answered, and remembered.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := util.NewLogger("error") // keep the console clean

	eng, err := engine.New(cfg, log)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer eng.Close()

	fmt.Println("kalushael console. /teach <intent> <text> to train, /exit to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/exit" || line == "/quit" {
			return nil
		}
		if rest, ok := strings.CutPrefix(line, "/teach "); ok {
			if err := teach(cfg.Mind.CorpusPath, rest); err != nil {
				fmt.Println("teach failed:", err)
			} else {
				fmt.Println("learned. restart the console to retrain the classifier.")
			}
			continue
		}

		reply, err := eng.Execute(line)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Printf("[%s %.2f] %s\n", reply.Intent, reply.Score, reply.Reply)
		for _, m := range reply.Recalled {
			fmt.Printf("  (recalled) %s\n", m)
		}
	}
}

func teach(corpusPath, rest string) error {
	intent, text, ok := strings.Cut(rest, " ")
	if !ok || strings.TrimSpace(text) == "" {
		return fmt.Errorf("usage: /teach <intent> <text>")
	}
	return spark.AppendCorpus(corpusPath, spark.Sample{Intent: intent, Text: strings.TrimSpace(text)})
}
