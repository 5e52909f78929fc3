package main

import "credmatrix_backend/internal/app"

func main() {
	app.Run()
}
