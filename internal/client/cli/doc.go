// Package cli provides the interactive operator console.
//
// It wires configuration, local storage, the auth gateway and the two
// submission controllers into a REPL. The console is the terminal rendition of
// the admin dashboard: login, a document-status upload and a visa-details form.
//
// Commands:
//   - login / logout / whoami
//   - upload: set a user's status and attach their document
//   - visa: enter a visa-grant record with conditions and a PDF
//   - reset: start both forms afresh
//   - history [n] / export <file.xlsx>: the local submission journal
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
