package main

import "atithi_backend/internal/app"

func main() {
	app.Run()
}
