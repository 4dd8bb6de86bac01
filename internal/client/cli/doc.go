// Package cli is the taskboard command-line client.
//
// Every operation is a cobra subcommand (signup, login, projects, tasks,
// comments, attachments and so on). "taskboard shell" opens a prompt that
// runs the same commands line by line against one open session.
//
// The session token lives in a local SQLite database under the data
// directory and is sent only with commands that change data.
package cli
