// File: doc.go
// Title: DexScript Package Documentation
// Description: Package dexscript runs line-oriented operator scripts against
//              a statically registered command namespace.
// Author: msto63
// Version: v1.0.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v1.0.0: Initial implementation

// Package dexscript translates a script into command calls.
//
// A script is plain text with one command invocation per line. Tokens are
// separated by ">", "::" or "=>":
//
//	-- create a regime, then give Germany a new rarity
//	Regime > create > Monarchy
//	update > Ball > Germany > rarity > 2.5
//	Ball.enable > Germany > false
//
// Processing runs in four stages:
//
//   - Normalization: CleanLine strips chat prefixes ("run", "o.run"),
//     backticks and comment lines; SplitScript splits lines into tokens.
//   - Classification: every token becomes a Value. Kinds are decided in a
//     fixed order: Method, Class, Model, Datetime, Boolean, Default.
//   - Resolution: the leading token of a line selects a Class and
//     optionally a method, honouring "Class.method" paths and aliases
//     such as "ls" for "listdir".
//   - Execution: lines run one after another. Unknown commands, missing
//     or unknown methods and missing arguments are recorded per line and
//     the run continues. An unresolvable model aborts the run before any
//     line executes; an error returned by a command aborts the remaining
//     lines.
//
// Basic usage:
//
//	ns, err := dexscript.NewNamespace(classes...)
//	exec, err := dexscript.New(dexscript.Options{
//		Namespace: ns,
//		Models:    models.Default(),
//		Runtime:   rt,
//		Logger:    logger,
//	})
//	report, err := exec.Execute(ctx, script, dexscript.NewShared())
//	if err != nil {
//		// fatal: the run was aborted
//	}
//	if err := report.Err(); err != nil {
//		fmt.Println(report)
//	}
package dexscript
