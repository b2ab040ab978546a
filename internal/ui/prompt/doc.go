// Package prompt provides the yes/no confirmation used before
// destructive commands such as clearing history.
package prompt
