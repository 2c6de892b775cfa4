/*
Copyright © 2025 docuchat
*/
package main

import (
	"github.com/docuchat/pdf-gpt-be/cmd"
	"github.com/joho/godotenv"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional, deployments usually configure through the environment
	godotenv.Load()
}
