// 生成管理员邀请码的 bcrypt 哈希
//
// 注册时携带正确邀请码的用户会获得管理员角色。把输出填进
// configs/config.yaml 的 auth.admin_code_hash，或设置环境变量
// OPSNEXUS_ADMIN_CODE_HASH。
//
// 用法: go run scripts/gen_admin_code.go <邀请码>

package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("用法: go run scripts/gen_admin_code.go <邀请码>")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("生成哈希失败: %v", err)
	}

	fmt.Println(string(hash))
}
