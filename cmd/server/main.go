package main

import "skilltrack/internal/app/server"

func main() {
	server.Run()
}
