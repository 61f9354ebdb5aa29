// Package logx wraps zerolog behind a small structured-logging API.
//
// It provides:
//   - a Logger value type with With()-derived fixed fields,
//   - a Service whose sinks (console, file) and level can be swapped
//     at runtime via Apply() without invalidating existing loggers.
package logx
