package main

import "recycling-rewards-backend/cmd"

func main() {
	cmd.Run()
}
