package main

import (
	"github.com/Gianuzzi/DeepSpyce/cmd/deepspyce/cmd"
	"github.com/Gianuzzi/DeepSpyce/pkg/di"
)

func main() {
	// Initialize dependency injection container
	container := di.NewContainer()

	// Inject dependencies into cmd package
	cmd.SetContainer(container)

	cmd.Execute()
}
