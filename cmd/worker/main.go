// Command worker is the outbox relay as its own binary; it accepts the
// same flags as "campodigital worker".
package main

import "campodigital/cmd"

func main() {
	cmd.Execute("worker")
}
