package service

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/newsradar-ai/newsradar/app/core"
	v1 "github.com/newsradar-ai/newsradar/app/logic/v1"
	"github.com/newsradar-ai/newsradar/app/logic/v1/process"
	"github.com/newsradar-ai/newsradar/pkg/security"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	// Add flags for generic options
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "news retrieval service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))

	// 先从反馈日志恢复 bandit 状态，再对外提供服务
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := app.RebuildLedger(ctx); err != nil {
		return err
	}

	if err := process.NewProcess(app).Start(); err != nil {
		return err
	}
	serve(app)

	return nil
}

// NewIngestCommand 手动跑一轮摄取流水线后退出
func NewIngestCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "run the ingestion pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))

			report, err := v1.NewIngestLogic(cmd.Context(), app).Ingest()
			if report != nil {
				fmt.Printf("state: %s, fetched: %d, chunked: %d, indexed: %d, elapsed: %s\n",
					report.State, report.Fetched, report.Chunked, report.Indexed, report.Elapsed)
				for _, e := range report.Errors {
					fmt.Println("error:", e)
				}
			}
			return err
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

// NewTokenCommand 为调用方签发访问令牌
func NewTokenCommand() *cobra.Command {
	opts := &Options{}
	var (
		user   string
		expire time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "generate an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := core.MustLoadBaseConfig(opts.ConfigPath)
			token, err := security.GenAccessToken(cfg.Security.EncryptKey, user, expire)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	cmd.Flags().StringVarP(&user, "user", "u", "admin", "token subject")
	cmd.Flags().DurationVarP(&expire, "expire", "e", time.Hour*24*365, "token lifetime")
	return cmd
}
