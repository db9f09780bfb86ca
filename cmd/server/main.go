package main

import "opsconsole/internal/app/server"

func main() {
	server.Run()
}
