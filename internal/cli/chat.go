package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/service"
	"github.com/spf13/cobra"
)

var quitCommands = map[string]bool{"退出": true, "exit": true}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive recommendation session",
	Long: `Start an interactive session bound to a profile.

Type 退出 or exit to leave, 结束场景 to end the active scene.
Device usage is recorded on the profile after every answered turn.

Examples:
  homesense chat
  homesense chat --profile alice`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, logger, err := build(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		defer c.Close()

		return runChat(cmd.Context(), c.Sessions, flagProfileID, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// runChat reads one utterance per line from in until EOF or a quit command.
func runChat(ctx context.Context, mgr *service.SessionManager, profileID string, in io.Reader, out io.Writer) error {
	s, load, err := mgr.Create(ctx, profileID)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Delete(context.WithoutCancel(ctx), s.ID) }()

	if load.Reason != nil {
		fmt.Fprintf(out, "使用默认用户档案 (%v)\n", load.Reason)
	}
	fmt.Fprintln(out, "智能家居助手已启动，输入「退出」结束对话")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if quitCommands[strings.ToLower(input)] {
			break
		}

		outcome, sess, err := mgr.Turn(ctx, s.ID, input)
		if err != nil {
			fmt.Fprintf(out, "出错了: %v\n", err)
			continue
		}
		if outcome.SceneEnded {
			fmt.Fprintln(out, "场景已结束")
			continue
		}
		fmt.Fprintf(out, "推荐设备: %s\n", outcome.Result)
		if scene := sess.Scene.State(); scene.Active() {
			fmt.Fprintf(out, "当前场景: %s (剩余 %d 轮)\n", scene.Name, scene.RemainingTurns)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	// usage is already stored per turn; this writes the profile even when
	// nothing was recorded, so a defaulted profile exists after the first chat
	if _, err := mgr.UpdateProfile(ctx, s.ProfileID, func(*domain.UserProfile) {}); err != nil {
		return err
	}
	fmt.Fprintln(out, "再见")
	return nil
}
