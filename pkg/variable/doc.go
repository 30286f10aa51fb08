// Package variable resolves a single configuration value from several
// candidate sources in a fixed order of preference.
//
// A Variable is one candidate: a key in some backing source (environment,
// config file, command-line arguments) together with a policy describing
// what to do when the key is missing or its value cannot be converted.
// A Preferred resolver evaluates its candidates in order and returns the
// first one that was actually retrieved.
//
// # Basic Usage
//
//	home := variable.NewPreferred[string](
//		variable.Argument(source.Flags(cmd.Flags()), "home-dir", variable.Policy[string]{}),
//		variable.Env("HOME", variable.Policy[string]{}),
//		variable.ConfigFile(store, "System", "HomeDir", variable.Policy[string]{}),
//		variable.Static("/home/default"),
//	)
//	dir, err := home.Value()
//
// # Policy
//
// Every variable carries a Policy:
//   - Default: returned when the lookup fails and the variable is not mandatory
//   - Convert: optional conversion of the raw value to T
//   - Mandatory: a failed lookup is fatal (*MandatoryMissingError)
//   - Strict: a failed conversion is fatal (*CoercionError); otherwise the raw
//     value is kept and the result is marked Degraded
//
// # Resolution Order
//
// Candidates are tried strictly by position. A fatal error from any
// candidate aborts resolution; later candidates are not consulted. A
// StaticDefault always counts as retrieved, so it terminates the scan. When
// no candidate was retrieved, the first candidate is evaluated again and its
// result (normally its Default) is returned.
//
// # Thread Safety
//
// Evaluation records the outcome of the last lookup on the variable, so a
// single Variable must not be evaluated from several goroutines at once.
// Build one resolver per goroutine, or guard it with a lock.
package variable
