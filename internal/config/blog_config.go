package config

import "github.com/spf13/viper"

const keyPostsPerPage = "posts_per_page"

type BlogConfig interface {
	GetPostsPerPage() int
}

type Blog struct {
	v *viper.Viper
}

var _ BlogConfig = Blog{}

func setBlogDefaults(v *viper.Viper) {
	v.SetDefault(keyPostsPerPage, 10)
}

func (b Blog) GetPostsPerPage() int {
	if n := b.v.GetInt(keyPostsPerPage); n > 0 {
		return n
	}
	return 10
}
