package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlag binds a viper key to a flag. It panics on an unknown flag name,
// which only a programming error can cause.
func bindFlag(key string, flags *pflag.FlagSet, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}
