// 版权所有 2024 swarmdfs Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖遍历、HTTP 与存储三个维度。

# 概述

Collector 通过 promauto.With(reg) 注册指标，调用方可传入独立的 Registry
（测试中每个用例一个），也可传 nil 使用默认 Registry。Collector 同时实现
swarm.Observer 与 swarm.RunObserver，可直接挂载到 Swarm 上。

# 主要能力

  - 遍历指标：按事件类型计数（enter/cycle/unavailable/failure/empty_pool）、
    按记录状态计数、运行次数、运行耗时与最大委派深度。
  - HTTP 指标：请求总数与耗时，状态码归类为 2xx/3xx/4xx/5xx。
  - 存储指标：Trace 存储操作按 operation/status 计数。
*/
package metrics
