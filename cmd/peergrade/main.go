// cmd/peergrade/main.go
package main

import (
	"peergrade/internal/app"
	"peergrade/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
