package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"tradein-estimator/config"
	"tradein-estimator/internal/client"
	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/model"
	"tradein-estimator/internal/service"
	"tradein-estimator/pkg/httpclient"
	"tradein-estimator/pkg/logger"

	"github.com/spf13/cobra"
)

var estimateFlags struct {
	form      string
	photos    []string
	logDir    string
	internal  bool
	chat      bool
	appraisal bool
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Request a trade-in estimate from a running server",
	RunE:  runEstimate,
}

func init() {
	f := estimateCmd.Flags()
	f.StringVar(&estimateFlags.form, "form", "", "path to a JSON trade-in form")
	f.StringSliceVar(&estimateFlags.photos, "photo", nil, "photo of the boat, repeatable")
	f.StringVar(&estimateFlags.logDir, "log", "", "directory to save the session estimate log into")
	f.BoolVar(&estimateFlags.internal, "internal", false, "use the staff facing variant")
	f.BoolVar(&estimateFlags.chat, "chat", false, "chat about the estimate after it is shown")
	f.BoolVar(&estimateFlags.appraisal, "appraisal", false, "request an in-person appraisal")
	_ = estimateCmd.MarkFlagRequired("form")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		return err
	}

	formReq, err := readForm(estimateFlags.form)
	if err != nil {
		return err
	}
	form, err := formReq.ToForm()
	if err != nil {
		return err
	}
	images, err := client.LoadImages(estimateFlags.photos, cfg.Gemini.MaxImages)
	if err != nil {
		return err
	}

	audience := model.AudienceCustomer
	if estimateFlags.internal {
		audience = model.AudienceInternal
	}

	c := client.New(log, httpclient.New(log, cfg.Client.BaseURL, cfg.Client.Timeout))
	out := cmd.OutOrStdout()

	est := c.GetTradeInEstimate(ctx, formReq, images, audience)
	if err := printJSON(out, est); err != nil {
		return err
	}

	if estimateFlags.appraisal && est.Succeeded() {
		if err := c.RequestAppraisal(ctx, formReq, est); err != nil {
			return fmt.Errorf("request appraisal: %w", err)
		}
		fmt.Fprintln(out, "Appraisal requested. The team will be in touch.")
	}

	if estimateFlags.logDir != "" {
		if err := saveEstimateLog(ctx, c, audience, estimateFlags.logDir, out); err != nil {
			return err
		}
	}

	if estimateFlags.chat && est.Succeeded() {
		return chatLoop(ctx, c, form, est, audience, cmd.InOrStdin(), out)
	}
	return nil
}

func readForm(path string) (dto.TradeInFormRequest, error) {
	var form dto.TradeInFormRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return form, fmt.Errorf("read form: %w", err)
	}
	if err := json.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("decode form: %w", err)
	}
	return form, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func saveEstimateLog(ctx context.Context, c *client.Client, audience model.Audience, dir string, out io.Writer) error {
	csv, err := c.DownloadEstimateLog(ctx, audience)
	if err != nil {
		return fmt.Errorf("download estimate log: %w", err)
	}
	path := filepath.Join(dir, service.EstimateLogFilename(audience))
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		return fmt.Errorf("save estimate log: %w", err)
	}
	fmt.Fprintf(out, "Estimate log saved to %s\n", path)
	return nil
}

// chatLoop reads one question per line until EOF or interrupt.
func chatLoop(ctx context.Context, c *client.Client, form model.TradeInForm, est model.Estimate, audience model.Audience, in io.Reader, out io.Writer) error {
	instruction := service.BuildChatSystemInstruction(form, est, audience)
	welcome := service.WelcomeMessage(form, audience)
	history := []model.ChatMessage{welcome}
	fmt.Fprintf(out, "\n%s\n> ", welcome.Text)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			fmt.Fprint(out, "> ")
			continue
		}
		history = append(history, model.ChatMessage{Role: model.ChatRoleUser, Text: text})
		reply := c.PostChatMessage(ctx, instruction, history)
		history = append(history, model.ChatMessage{Role: model.ChatRoleModel, Text: reply})
		fmt.Fprintf(out, "%s\n> ", reply)
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
