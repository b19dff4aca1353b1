package main

import "github.com/killallgit/podscribe/cmd"

// @title           podscribe API
// @version         1.0
// @description     Semantic search over podcast transcripts with channel, episode and batch job management
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
