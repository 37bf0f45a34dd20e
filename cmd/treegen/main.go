//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command treegen expands YAML value-tree templates into materialized
// data, for fixture generation and configuration expansion.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"treegen/bind"
	"treegen/check"
	"treegen/template"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "treegen",
		Short:         "expand value-tree templates into synthetic data",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newExpandCommand())
	return cmd
}

// expandOptions holds the flags of the expand subcommand.
type expandOptions struct {
	format string
	strict bool
}

func (o *expandOptions) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.format, "format", "json", "output format: json or yaml")
	fs.BoolVar(&o.strict, "strict", false, "fail on structural template violations")
}

func newExpandCommand() *cobra.Command {
	opts := &expandOptions{}
	cmd := &cobra.Command{
		Use:   "expand FILE",
		Short: "compile a YAML template and print the materialized value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(cmd, opts, args[0])
		},
	}
	opts.register(cmd.Flags())
	return cmd
}

func runExpand(cmd *cobra.Command, opts *expandOptions, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read template %q: %v", path, err)
	}
	root, err := template.Compile(data)
	if err != nil {
		return fmt.Errorf("cannot compile template %q: %v", path, err)
	}
	if err := check.Tree(root); err != nil {
		if opts.strict {
			return fmt.Errorf("invalid template %q: %v", path, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	value, err := bind.Value(root)
	if err != nil {
		return fmt.Errorf("cannot expand template %q: %v", path, err)
	}
	return write(cmd, opts.format, value)
}

func write(cmd *cobra.Command, format string, value any) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		encoded, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(encoded))
		return nil
	case "yaml":
		encoded, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(encoded))
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
