// Package logger provides structured logging for the accessors using zerolog.
//
// Every accessor receives a *Logger and tags it with its component name:
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "jobs")
//	rlog := log.WithComponent("redis")
//	rlog.Info("pipeline sent", logger.Fields("commands", 4))
package logger
