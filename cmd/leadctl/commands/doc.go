// Package commands defines the leadctl operator CLI.
//
// Commands
//
//   - format     Apply the +7 (XXX) XXX-XX-XX mask to raw input
//   - validate   Check a phone against the Russian numbering rule
//   - submit     Send one lead to the configured Telegram chat
//   - form       Drive a lead form interactively, one line per field value
//
// Credentials are read once from .env / the environment before any
// subcommand runs, exactly as the API does.
package commands
