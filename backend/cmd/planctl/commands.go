package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"team-planner/backend/internal/dto"
)

// ── promote ──

var promoteCmd = &cobra.Command{
	Use:   "promote <user-id>",
	Short: "将用户提升为管理者",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.svc.User.PromoteManager(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s <%s>\n", result.Message, result.User.Name, result.User.Email)
		return nil
	},
}

// ── export-week ──

var (
	exportDate string
	exportOut  string
)

var exportWeekCmd = &cobra.Command{
	Use:   "export-week",
	Short: "导出指定日期所在周的全局排期（xlsx）",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		buf, filename, err := a.svc.Export.ExportWeek(cmd.Context(), &dto.WeekQuery{Date: exportDate})
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = filename
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("写入文件失败: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已导出: %s\n", out)
		return nil
	},
}

func init() {
	exportWeekCmd.Flags().StringVar(&exportDate, "date", "", "周内任意日期 YYYY-MM-DD（默认今天）")
	exportWeekCmd.Flags().StringVarP(&exportOut, "out", "o", "", "输出文件（默认 planning_<周一>.xlsx）")
}

// ── users ──

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "列出全部用户",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		users, err := a.svc.User.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
		}
		return w.Flush()
	},
}
