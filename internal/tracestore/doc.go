/*
Package tracestore 持久化 swarm 运行产生的 Trace。

# 后端

  - MemoryStore：进程内存，默认后端，适合开发与测试
  - RedisStore：Trace 以 JSON 存储，按开始时间维护有序集合索引，支持 TTL
  - SQLStore：基于 gorm，支持 postgres、mysql、sqlite

New 根据 config.StoreConfig 创建后端；Instrumented 为任意后端附加操作指标。
*/
package tracestore
