// 版权所有 2024 swarmdfs Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 server 提供 swarmdfs HTTP 服务器的生命周期管理，支持非阻塞启动
与优雅关闭。

# 核心类型

  - Manager：封装 http.Server 与 net.Listener，提供 Start/Shutdown/Wait。
  - Config：监听地址、读写超时、空闲超时、最大请求头与关闭超时；
    FromServerConfig 由 config.ServerConfig 转换而来。

# 主要能力

  - 非阻塞启动：Start 在后台 goroutine 中运行服务。
  - 优雅关闭：Shutdown 在配置的超时内排空请求。
  - Wait 在 ctx 结束（通常由 signal.NotifyContext 触发）或服务异常时关闭服务器。
  - 错误传播：Errors() 返回异步错误通道。
*/
package server
