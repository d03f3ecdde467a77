// Package model provides the data structures shared by the pipeline package and its options.
// It defines the description of every stage of a pipeline and the hooks a pipeline option
// implements to observe stages while they run.
package model
