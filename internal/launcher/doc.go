// Package launcher implements the preflight-and-handoff pipeline.
//
// The pipeline is a fixed sequence of guard checks followed by a single
// child process:
//  1. find a Python runtime of the minimum version
//  2. import the GUI toolkit through it
//  3. confirm the installer files are in the working directory
//  4. run the installer and wait
//  5. report the result
//
// Checks 1-3 only read the host, so running the launcher twice without
// changes prints the same diagnostics. Every terminal path ends with the
// acknowledgment pause so a double-clicked console window stays open
// long enough to be read.
package launcher
