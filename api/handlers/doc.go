// 版权所有 2024 swarmdfs Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
Package handlers 提供 swarmdfs HTTP API 的请求处理器实现。

# 核心类型

  - RunHandler  启动 run（POST /v1/runs）、查询与列出已保存的 trace
  - HealthHandler  存活与就绪检查（/health, /ready）
  - Response  统一 JSON 响应结构（success + data + error + timestamp）
  - ErrorInfo  结构化错误信息，含 code、message、retryable 标记
  - ResponseWriter  包装 http.ResponseWriter 以捕获状态码

# 主要能力

  - 统一响应格式：WriteSuccess / WriteError / WriteJSON
  - ErrorCode → HTTP 状态码映射
  - run 串行执行：同一 Swarm 上的请求由互斥锁排队
  - 取消或超时的 run 仍保存部分 trace，返回 RUN_CANCELLED
*/
package handlers
