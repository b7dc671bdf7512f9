package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"wisdom-spin/internal/config"
	"wisdom-spin/internal/domain"
	"wisdom-spin/internal/infra/postgres"
	infraredis "wisdom-spin/internal/infra/redis"
)

// NewQuestionsCmd manages the custom fallback questions stored in Postgres.
func NewQuestionsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage custom fallback questions",
	}
	cmd.AddCommand(newQuestionsAddCmd(configPath))
	cmd.AddCommand(newQuestionsListCmd(configPath))
	cmd.AddCommand(newQuestionsRemoveCmd(configPath))
	return cmd
}

func openCustomStore(cmd *cobra.Command, configPath string) (*postgres.CustomStore, config.Config, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, cfg, nil, err
	}
	if cfg.Postgres.URL == "" {
		return nil, cfg, nil, fmt.Errorf("postgres url not configured")
	}
	db := postgres.OpenDB(cfg.Postgres.URL)
	if _, err := postgres.Migrate(cmd.Context(), db); err != nil {
		db.Close()
		return nil, cfg, nil, err
	}
	return postgres.NewCustomStore(db), cfg, func() { db.Close() }, nil
}

// invalidateBankCache drops the Redis-cached pools of lang so servers reload
// them from Postgres on the next round. Servers without Redis keep their
// in-process cache until bank.ttl runs out or they restart.
func invalidateBankCache(ctx context.Context, cfg config.Config, lang domain.Language) error {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()
	if err := infraredis.NewBankCache(client, nil, 0).Invalidate(ctx, lang); err != nil {
		return fmt.Errorf("invalidate %s bank cache: %w", lang, err)
	}
	return nil
}

func newQuestionsAddCmd(configPath *string) *cobra.Command {
	var lang, category string
	var item domain.BankItem
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom question",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, closeDB, err := openCustomStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer closeDB()

			row, err := store.Add(cmd.Context(), domain.Language(lang), domain.Category(category), item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added question %d (%s/%s)\n", row.ID, row.Lang, row.Category)
			return invalidateBankCache(cmd.Context(), cfg, domain.Language(row.Lang))
		},
	}
	cmd.Flags().StringVar(&lang, "lang", string(domain.DefaultLanguage), "question language (ar, en)")
	cmd.Flags().StringVar(&category, "category", string(domain.DefaultCategory), "question category")
	cmd.Flags().StringVar(&item.Question, "question", "", "question text")
	cmd.Flags().StringVar(&item.Answer, "answer", "", "answer text")
	cmd.Flags().StringVar(&item.Explanation, "explanation", "", "optional explanation")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}

func newQuestionsListCmd(configPath *string) *cobra.Command {
	var lang, category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List custom questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, closeDB, err := openCustomStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer closeDB()

			rows, err := store.List(cmd.Context(), domain.Language(lang), domain.Category(category))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLANG\tCATEGORY\tQUESTION\tANSWER")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Lang, domain.Category(r.Category).Label(domain.Language(r.Lang)), r.Question, r.Answer)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "filter by language")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	return cmd
}

func newQuestionsRemoveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			store, cfg, closeDB, err := openCustomStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer closeDB()
			row, err := store.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed question %d (%s/%s)\n", row.ID, row.Lang, row.Category)
			return invalidateBankCache(cmd.Context(), cfg, domain.Language(row.Lang))
		},
	}
}
