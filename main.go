package main

import "github.com/avoron/groupchat/cmd/server"

func main() {
	server.NewServer().Run()
}
