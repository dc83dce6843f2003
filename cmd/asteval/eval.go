package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/asteval/pkg/ast"
	"github.com/lemonberrylabs/asteval/pkg/builtins"
	"github.com/lemonberrylabs/asteval/pkg/eval"
	"github.com/lemonberrylabs/asteval/pkg/types"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate an AST document (JSON or YAML) from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEval,
	}
	cmd.Flags().String("context", "", "JSON/YAML file with the variable bindings")
	cmd.Flags().Bool("builtins", false, "Expose Math, JSON, parseInt and the other built-ins")
	cmd.Flags().Bool("function", false, "Read the document as a function header and evaluate its returned expression")
	cmd.Flags().String("args", "[]", "JSON list of arguments bound to the function parameters (with --function)")
	cmd.Flags().Bool("pretty", false, "Indent the JSON result")
	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	logger := zerolog.Ctx(cmd.Context())

	src, err := readSource(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	node, err := ast.Decode(src)
	if err != nil {
		return fmt.Errorf("decode AST: %w", err)
	}

	contextPath, _ := cmd.Flags().GetString("context")
	vars, err := loadContext(contextPath)
	if err != nil {
		return err
	}

	var scope eval.Scope = vars
	if useBuiltins, _ := cmd.Flags().GetBool("builtins"); useBuiltins {
		scope = builtins.NewRegistry().Scope(vars)
	}

	var value types.Value
	if asFunction, _ := cmd.Flags().GetBool("function"); asFunction {
		fn, err := ast.ReadFunction(node)
		if err != nil {
			return err
		}
		rawArgs, _ := cmd.Flags().GetString("args")
		argv, err := parseArgs(rawArgs)
		if err != nil {
			return err
		}
		logger.Debug().Str("function", fn.Name).Strs("params", fn.Params).Int("args", len(argv)).Msg("applying function")
		value, err = eval.Apply(fn, argv, scope)
		if err != nil {
			return err
		}
	} else {
		value, err = eval.Evaluate(node, scope)
		if err != nil {
			return err
		}
	}
	logger.Debug().Str("type", types.TypeOf(value)).Msg("evaluated")

	if value.IsUndefined() {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "undefined")
		return err
	}
	out, err := value.MarshalJSON()
	if err != nil {
		return err
	}
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err != nil {
			return err
		}
		out = buf.Bytes()
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func readSource(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}

func loadContext(path string) (eval.Vars, error) {
	vars := eval.Vars{}
	if path == "" {
		return vars, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}
	doc, err := types.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}
	if doc.Type() != types.TypeObject {
		return nil, fmt.Errorf("read context: %s must hold an object, got %s", path, doc.Type())
	}
	m := doc.AsObject()
	for _, k := range m.Keys() {
		vars[k], _ = m.Get(k)
	}
	return vars, nil
}

func parseArgs(raw string) ([]types.Value, error) {
	doc, err := types.DecodeDocument([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse --args: %w", err)
	}
	if doc.Type() != types.TypeArray {
		return nil, errors.New("parse --args: expected a JSON list")
	}
	return doc.AsArray(), nil
}
