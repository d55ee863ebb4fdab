package main

import "github.com/ShenSeanChen/yt-agentic-rag/cmd/ragdev"

func main() {
	ragdev.Main()
}
