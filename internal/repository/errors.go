package repository

import "errors"

var ErrNotFound = errors.New("not found")

// 一意制約違反（メールアドレス・ユーザー名・slugなど）
var ErrDuplicate = errors.New("duplicate")
