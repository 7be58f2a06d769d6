package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/i18n"
)

type analysisOutput struct {
	model.RunAnalysisResult
	Display *i18n.Display `json:"display"`
}

// savedAnalysis reads back what analyze wrote. The display block is
// accepted and ignored.
type savedAnalysis struct {
	model.RunAnalysisResult `yaml:",inline"`
	Display                 any `json:"display,omitempty" yaml:"display,omitempty"`
}

type errorsOutput struct {
	model.ErrorDetectionResult
	Display *i18n.Display `json:"display"`
}

type reportOutput struct {
	model.Report
	Display *i18n.Display `json:"display"`
}

type compareOutput struct {
	model.ComparisonResult
	Display *i18n.Display `json:"display"`
}

func newAnalyzeCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Score a run and classify the runner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := flags.locale()
			if err != nil {
				return err
			}
			var in model.RunBiomechanicsInput
			if err := readInput(args[0], cmd.InOrStdin(), &in); err != nil {
				return err
			}
			svc, err := flags.newService(cmd)
			if err != nil {
				return err
			}
			res, err := svc.Analyze(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.pretty, analysisOutput{res, i18n.NewDisplay(loc).Analysis(&res)})
		},
	}
}

func newSimpleCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "simple <file>",
		Short: "Score a run from per-joint means",
		Long:  "simple fills in min, max, std and count from typical variability before scoring. Absent means use typical values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := flags.locale()
			if err != nil {
				return err
			}
			var in model.SimpleInput
			if err := readInput(args[0], cmd.InOrStdin(), &in); err != nil {
				return err
			}
			svc, err := flags.newService(cmd)
			if err != nil {
				return err
			}
			res, err := svc.AnalyzeSimple(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.pretty, analysisOutput{res, i18n.NewDisplay(loc).Analysis(&res)})
		},
	}
}

func newErrorsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "errors <file>",
		Short: "Detect technique errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := flags.locale()
			if err != nil {
				return err
			}
			var in model.RunBiomechanicsInput
			if err := readInput(args[0], cmd.InOrStdin(), &in); err != nil {
				return err
			}
			svc, err := flags.newService(cmd)
			if err != nil {
				return err
			}
			res, err := svc.DetectErrors(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.pretty, errorsOutput{res, i18n.NewDisplay(loc).Errors(&res)})
		},
	}
}

func newReportCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "report <file>",
		Short: "Analysis, errors, recommendations and focus for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := flags.locale()
			if err != nil {
				return err
			}
			var in model.RunBiomechanicsInput
			if err := readInput(args[0], cmd.InOrStdin(), &in); err != nil {
				return err
			}
			svc, err := flags.newService(cmd)
			if err != nil {
				return err
			}
			res, err := svc.Report(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.pretty, reportOutput{res, i18n.NewDisplay(loc).Report(&res)})
		},
	}
}

func newCompareCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <before> <after>",
		Short: "Compare two saved analysis results",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := flags.locale()
			if err != nil {
				return err
			}
			var before, after savedAnalysis
			if err := readInput(args[0], cmd.InOrStdin(), &before); err != nil {
				return err
			}
			if err := readInput(args[1], cmd.InOrStdin(), &after); err != nil {
				return err
			}
			svc, err := flags.newService(cmd)
			if err != nil {
				return err
			}
			res, err := svc.Compare(cmd.Context(), before.RunAnalysisResult, after.RunAnalysisResult)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.pretty, compareOutput{res, i18n.NewDisplay(loc).Comparison(&res)})
		},
	}
}
