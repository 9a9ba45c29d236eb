package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veilsong/npccore/internal/config"
	"github.com/veilsong/npccore/internal/dialogue"
	"github.com/veilsong/npccore/internal/memory"
	"github.com/veilsong/npccore/internal/models"
	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/relationship"
	"github.com/veilsong/npccore/internal/types"
)

var talkFlags struct {
	name      string
	archetype string
}

var talkCmd = &cobra.Command{
	Use:   "talk [line...]",
	Short: "Speak one line to a freshly spawned NPC and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)
		line := strings.Join(args, " ")

		opts := []dialogue.Option{
			dialogue.WithDeadline(cfg.ReplyDeadline),
			dialogue.WithLogger(logger),
		}
		if cfg.ModelEnabled() {
			gen, err := models.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel, logger)
			if err != nil {
				return fmt.Errorf("failed to build generator: %w", err)
			}
			opts = append(opts, dialogue.WithGenerator(gen))
		}
		mgr := dialogue.NewManager(opts...)

		m := personality.NewMatrix(nil)
		npc := &dialogue.Participant{
			Entity:      1,
			Name:        talkFlags.name,
			Archetype:   types.Archetype(talkFlags.archetype),
			Personality: m,
			Emotions:    personality.NewStateMachine(),
			Memory:      memory.NewStore(),
			Graph:       relationship.NewGraph(),
		}

		const player types.Entity = 1000
		res, err := mgr.Respond(cmd.Context(), npc, player, line)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %s\n", npc.Name, res.Reply.Text)
		fmt.Printf("  intent=%s sentiment=%.2f model=%v mood=%s\n",
			res.Intent, float64(res.Sentiment), res.FromModel, m.Emotion.Mood)
		if rel, ok := npc.Graph.Get(npc.Entity, player); ok {
			fmt.Printf("  relationship=%s trust=%.2f tension=%.2f\n",
				rel.Type, rel.Trust, rel.Tension)
		}
		return nil
	},
}

func init() {
	talkCmd.Flags().StringVar(&talkFlags.name, "name", "Maren", "NPC name")
	talkCmd.Flags().StringVar(&talkFlags.archetype, "archetype", string(types.ArchetypeMerchant), "NPC archetype")
	rootCmd.AddCommand(talkCmd)
}
