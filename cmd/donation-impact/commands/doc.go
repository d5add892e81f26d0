// Package commands defines the donation-impact CLI.
//
// Commands
//
//   - estimate     Print nets, lives and probability for one or more amounts
//   - serve        Run the web calculator and JSON API
//   - init-config  Write the built-in configuration as YAML
//   - version      Print the build version
//
// The root command loads config.yaml and builds the logger and calculator
// before any subcommand runs, so subcommands share them.
package commands
