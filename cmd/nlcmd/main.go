package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/cost"
	"github.com/drift-line/nlcmd/pkg/detect"
	"github.com/drift-line/nlcmd/pkg/entities"
	"github.com/drift-line/nlcmd/pkg/hybrid"
	"github.com/drift-line/nlcmd/pkg/limiter"
	"github.com/drift-line/nlcmd/pkg/llm"
	"github.com/drift-line/nlcmd/pkg/logging"
	"github.com/drift-line/nlcmd/pkg/pipeline"
	"github.com/drift-line/nlcmd/pkg/router"
	"github.com/drift-line/nlcmd/pkg/thermo"
	"github.com/drift-line/nlcmd/pkg/tokens"
)

func main() {
	mode := flag.String("mode", "generate", "detect | route | generate | solve")
	forceLLM := flag.Bool("force-llm", false, "skip the rule pipeline")
	asJSON := flag.Bool("json", false, "print the full result as JSON")
	flag.Parse()

	text := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if text == "" {
		text = readStdin()
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: nlcmd [-mode detect|route|generate|solve] [-force-llm] [-json] <text>")
		os.Exit(2)
	}

	logger := logging.NewNop()

	detector, err := detect.NewDetector(detect.Options{
		SchemaEntries:     detect.DefaultSchemaEntries(),
		EnableFuzzy:       true,
		SemanticThreshold: 0.90,
		Logger:            logger,
	})
	if err != nil {
		log.Fatalf("failed to build detector: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch *mode {
	case "detect":
		emit(os.Stdout, detector.Detect(text), *asJSON, func(res core.DetectionResult) string {
			return fmt.Sprintf("%s/%s (%.2f)", res.Domain, res.Intent, res.Confidence)
		})
	case "route":
		det := detector.Detect(text)
		ents := entities.NewExtractor().Extract(det.Domain, text)
		res := router.NewDecisionRouter(router.DefaultConfig()).Route(det.Intent, ents, text, det.Confidence)
		emit(os.Stdout, res, *asJSON, func(res core.RoutingResult) string {
			return fmt.Sprintf("%s: %s", res.Decision, res.Reason)
		})
	case "generate":
		gen := hybrid.NewGenerator(pipeline.NewRules(detector, logger), maybeLLM(), nil, hybrid.Options{
			ConfidenceThreshold: 0.7,
			ForceLLM:            *forceLLM,
			Model:               "gpt-4o-mini",
			MaxTokens:           256,
			Temperature:         0.1,
			Tokens:              tokens.DefaultRegistry(),
			Cost:                cost.NewCalculator(nil),
		})
		res := gen.Generate(ctx, text)
		if !res.Success && !*asJSON {
			fmt.Fprintf(os.Stderr, "generation failed: %s\n", res.Error)
			os.Exit(1)
		}
		emit(os.Stdout, res, *asJSON, func(res core.HybridResult) string { return res.Command })
	case "solve":
		res := thermo.NewGenerator(thermo.DefaultGeneratorOptions()).Generate(ctx, text, nil)
		emit(os.Stdout, res, *asJSON, func(res core.ThermodynamicResult) string {
			if len(res.Errors) > 0 {
				return "failed: " + strings.Join(res.Errors, "; ")
			}
			return fmt.Sprintf("solution=%v energy=%.3f converged=%v", res.Solution, res.Energy, res.Converged)
		})
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
}

// maybeLLM returns an OpenAI client when an API key is present, nil otherwise.
func maybeLLM() core.LLMClient {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil
	}
	client, err := llm.NewOpenAIClient(llm.DefaultConfig(), limiter.NewGuard(limiter.DefaultGuardConfig(), nil))
	if err != nil {
		log.Fatalf("failed to create LLM client: %v", err)
	}
	return client
}

func readStdin() string {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return ""
	}
	var sb strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString(" ")
	}
	return strings.TrimSpace(sb.String())
}

// emit prints res to w, either as indented JSON or via the plain formatter.
func emit[T any](w io.Writer, res T, asJSON bool, format func(T) string) {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatalf("failed to encode result: %v", err)
		}
		return
	}
	fmt.Fprintln(w, format(res))
}
