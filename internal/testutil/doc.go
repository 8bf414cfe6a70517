// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv, MustUnsetenv),
// file and directory operations (MustWriteFile, MustReadFile, MustMkdirAll),
// stand-in executables (FakeProgram, PrependPath), and a captured logger
// (NewLogger) for asserting on log output.
package testutil
