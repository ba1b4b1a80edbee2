package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"btoolme/internal/bootstrap"
	"btoolme/internal/catalog"
	"btoolme/internal/delivery"
	"btoolme/internal/questionnaire"
	"btoolme/internal/recommend"
	"btoolme/internal/shared/apperr"
	"btoolme/internal/shared/config"
)

type recommendOptions struct {
	size     string
	industry string
	needs    []string
	budget   string
	features []string
	name     string
	email    string
	limit    int
	asJSON   bool
	send     bool
	api      string
}

func recommendCmd() *cobra.Command {
	var opts recommendOptions
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Answer the questionnaire with flags and print the ranked tools",
		Example: `  btoolctl recommend --size small --industry retail --need accounting --budget low \
    --name Jane --email jane@example.com --send --api https://btoolme.com/.netlify/functions/send-recommendations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.size, "size", "", "business size: solo, small, medium, large")
	f.StringVar(&opts.industry, "industry", "", "industry: retail, services, technology, healthcare, manufacturing, hospitality, other")
	f.StringSliceVar(&opts.needs, "need", nil, "category you need help with (repeatable)")
	f.StringVar(&opts.budget, "budget", "", "monthly budget band: free, low, medium, high")
	f.StringSliceVar(&opts.features, "feature", nil, "feature you want (repeatable)")
	f.StringVar(&opts.name, "name", "", "your name")
	f.StringVar(&opts.email, "email", "", "where to send the recommendations")
	f.IntVar(&opts.limit, "limit", config.DefaultRecommendationLimit, "maximum number of tools to show (0 = all)")
	f.BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")
	f.BoolVar(&opts.send, "send", false, "email the recommendations")
	f.StringVar(&opts.api, "api", "", "send through a remote send-recommendations endpoint instead of local mail")
	return cmd
}

func runRecommend(ctx context.Context, w io.Writer, opts recommendOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	flow := questionnaire.NewFlow(catalog.Default(), nil)
	if err := flow.Start(); err != nil {
		return err
	}
	answers := []struct {
		field  questionnaire.Field
		values []string
	}{
		{questionnaire.FieldBusinessSize, []string{opts.size}},
		{questionnaire.FieldIndustry, []string{opts.industry}},
		{questionnaire.FieldNeeds, opts.needs},
		{questionnaire.FieldBudget, []string{opts.budget}},
		{questionnaire.FieldFeatures, opts.features},
		{questionnaire.FieldName, []string{opts.name}},
		{questionnaire.FieldEmail, []string{opts.email}},
	}
	var problems []string
	for _, a := range answers {
		if err := flow.Answer(a.field, a.values...); err != nil {
			problems = append(problems, describe(err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid answers: %s", strings.Join(problems, "; "))
	}

	recs, err := flow.Submit()
	if err != nil {
		if flow.State() == questionnaire.StateErrored {
			return errors.New(flow.ErrorMessage())
		}
		return errors.New(describe(err))
	}
	if opts.limit > 0 && len(recs) > opts.limit {
		recs = recs[:opts.limit]
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(recs); err != nil {
			return err
		}
	} else {
		printRecommendations(w, recs)
	}

	if !opts.send {
		return nil
	}
	if len(recs) == 0 {
		return errors.New("nothing to send: no tools matched your answers")
	}
	gateway, err := newGateway(opts.api)
	if err != nil {
		return err
	}
	out := gateway.RequestDelivery(ctx, delivery.Request{
		Email:           flow.Answers().Email,
		Name:            flow.Answers().Name,
		Recommendations: recs,
	})
	if !out.Success {
		return errors.New(out.Error)
	}
	fmt.Fprintln(w, out.Message)
	return nil
}

func newGateway(api string) (*delivery.Gateway, error) {
	if api != "" {
		return delivery.NewGateway(delivery.NewHTTPDispatcher(api), nil), nil
	}
	app, err := bootstrap.Build(config.Load())
	if err != nil {
		return nil, err
	}
	return app.Gateway, nil
}

func printRecommendations(w io.Writer, recs []recommend.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No tools matched your answers. Try widening your needs or budget.")
		return
	}
	for i, rec := range recs {
		fmt.Fprintf(w, "%d. %s (%s) score %.0f\n", i+1, rec.Tool.Name, rec.Tool.Category, rec.Score)
		for _, reason := range rec.Reasons {
			fmt.Fprintf(w, "   - %s\n", reason)
		}
		fmt.Fprintf(w, "   %s\n", rec.Tool.Website)
	}
}

func describe(err error) string {
	details := apperr.DetailsOf(err)
	if len(details) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(details))
	for _, d := range details {
		parts = append(parts, d.Field+" "+d.Issue)
	}
	return strings.Join(parts, ", ")
}
